package repository

import (
	"context"
	"time"

	"shipmarket-backend/internal/domain"
)

// AcceptOfferParams carries everything the order store needs to finalize an
// acceptance in one atomic unit: the winning offer's terms plus the ship
// booking created alongside.
type AcceptOfferParams struct {
	OrderID         int32
	OfferID         int32
	PartnerID       int32
	ShipID          int32
	TotalPriceCents int32
	At              time.Time
	Booking         *domain.ShipAvailabilityRecord
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.RentOrder) error
	GetByID(ctx context.Context, id int32) (*domain.RentOrder, error)
	Delete(ctx context.Context, id int32) error
	ListByRenter(ctx context.Context, renterID int32, status domain.OrderStatus) ([]domain.RentOrder, error)
	ListByPartner(ctx context.Context, partnerID int32, status domain.OrderStatus) ([]domain.RentOrder, error)
	// ListOpen returns orders still open for offers (awaiting response or
	// already carrying offers), newest first.
	ListOpen(ctx context.Context) ([]domain.RentOrder, error)
	GetActiveByRenter(ctx context.Context, renterID int32) (*domain.RentOrder, error)
	ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RentOrder, error)

	// UpdateStatusIf performs a compare-and-set on the order status and
	// reports whether the transition was applied. Two concurrent first
	// offers race through this without double-flipping.
	UpdateStatusIf(ctx context.Context, id int32, from, to domain.OrderStatus) (bool, error)

	// AcceptOffer is the order's single linearization point. In one atomic
	// unit it binds the order to the offer's partner/ship/price, marks the
	// target offer accepted, rejects every other pending sibling and books
	// the ship. Exactly one caller wins per order; losers get
	// domain.ErrConcurrentConflict, an already-resolved target offer yields
	// domain.ErrInvalidStateTransition. The ship's calendar is re-checked
	// inside the same atomic unit: a booking that would overlap an existing
	// record yields domain.ErrValidationFailed and nothing is committed.
	AcceptOffer(ctx context.Context, p AcceptOfferParams) (*domain.RentOrder, *domain.Offer, error)

	// Terminate moves a non-terminal order to the given terminal status,
	// rejects its still-pending offers and releases any ship booking held
	// for it, all in one atomic unit.
	Terminate(ctx context.Context, id int32, to domain.OrderStatus, at time.Time) (*domain.RentOrder, error)
}

type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) error
	GetByID(ctx context.Context, id int32) (*domain.Offer, error)
	Delete(ctx context.Context, id int32) error
	DeleteByOrder(ctx context.Context, orderID int32) error
	ListByOrder(ctx context.Context, orderID int32) ([]domain.Offer, error)
	ListByPartner(ctx context.Context, partnerID int32) ([]domain.Offer, error)
	// ListByRenter resolves through the orders relation; offers do not carry
	// the renter id themselves.
	ListByRenter(ctx context.Context, renterID int32) ([]domain.Offer, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Offer, error)
	// Reject conditionally resolves a still-pending offer and reports
	// whether it did.
	Reject(ctx context.Context, id int32, at time.Time) (bool, error)
}

type ShipRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Ship, error)
}

type PortRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Port, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

type AvailabilityRepository interface {
	ListByShip(ctx context.Context, shipID int32) ([]domain.ShipAvailabilityRecord, error)
	DeleteByOrder(ctx context.Context, orderID int32) error
}
