package service

import (
	"context"
	"time"

	"shipmarket-backend/internal/domain"
)

// CreateOrderSpec carries the renter's request for a new rent order.
type CreateOrderSpec struct {
	DesiredShipTypeID int32      `json:"desired_ship_type_id"`
	DeparturePortID   int32      `json:"departure_port_id"`
	ArrivalPortID     *int32     `json:"arrival_port_id,omitempty"`
	PassengerCount    int32      `json:"passenger_count"`
	RentalStart       time.Time  `json:"rental_start"`
	RentalEnd         *time.Time `json:"rental_end,omitempty"`
}

// SubmitOfferSpec carries a partner's proposal against an open order.
type SubmitOfferSpec struct {
	RentOrderID       int32 `json:"rent_order_id"`
	ShipID            int32 `json:"ship_id"`
	OfferedPriceCents int32 `json:"offered_price_cents"`
}

// OrderService is the rent-order lifecycle engine. The caching layer
// implements the same interface and wraps an inner engine, so callers cannot
// tell the two apart. Every operation returns a typed failure from the
// domain taxonomy.
type OrderService interface {
	CreateOrder(ctx context.Context, renterID int32, spec CreateOrderSpec) (*domain.RentOrder, error)
	SubmitOffer(ctx context.Context, partnerID int32, spec SubmitOfferSpec) (*domain.Offer, error)
	AcceptOffer(ctx context.Context, orderID, offerID int32) (*domain.RentOrder, error)
	RejectOffer(ctx context.Context, offerID int32) (*domain.Offer, error)
	CancelOrder(ctx context.Context, orderID int32) (*domain.RentOrder, error)
	DiscontinueOrder(ctx context.Context, orderID int32) (*domain.RentOrder, error)
	CompleteOrder(ctx context.Context, orderID int32) (*domain.RentOrder, error)
	DeleteOrder(ctx context.Context, orderID int32) error
	DeleteOffer(ctx context.Context, offerID int32) error

	GetOrder(ctx context.Context, orderID int32) (*domain.RentOrder, error)
	GetActiveOrderForUser(ctx context.Context, userID int32) (*domain.RentOrder, error)
	GetOrdersForUserByStatus(ctx context.Context, userID int32, status domain.OrderStatus) ([]domain.RentOrder, error)
	GetOrdersForPartnerByStatus(ctx context.Context, partnerID int32, status domain.OrderStatus) ([]domain.RentOrder, error)
	GetAvailableOrdersForPartner(ctx context.Context, partnerID int32) ([]domain.RentOrder, error)
	GetOffersByOrder(ctx context.Context, orderID int32) ([]domain.Offer, error)
	GetOffersByPartner(ctx context.Context, partnerID int32) ([]domain.Offer, error)
	GetOffersForUser(ctx context.Context, userID int32) ([]domain.Offer, error)
}

// AvailabilityValidator checks whether a ship is eligible for an order and
// whether a candidate rental interval collides with the ship's bookings.
type AvailabilityValidator interface {
	// ValidateShipForOrder runs the pure eligibility predicates (type match,
	// port match, capacity) and returns domain.ErrValidationFailed with the
	// failing reason.
	ValidateShipForOrder(ship *domain.Ship, order *domain.RentOrder) error
	// HasOverlap tests [start, end) against the ship's existing availability
	// records using half-open interval intersection; a nil end is unbounded.
	// excludeRecordID, when non-zero, skips that record.
	HasOverlap(ctx context.Context, shipID int32, start time.Time, end *time.Time, excludeRecordID int32) (bool, error)
}

type EmailService interface {
	SendOfferReceivedNotification(ctx context.Context, renterEmail, renterName, shipName string, priceCents int32) error
	SendOfferAcceptedNotification(ctx context.Context, partnerEmail, shipName string, priceCents int32) error
	SendOrderDiscontinuedNotification(ctx context.Context, renterEmail, renterName string, orderID int32) error
}
