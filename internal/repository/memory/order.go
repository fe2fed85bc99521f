package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"shipmarket-backend/internal/domain"
	"shipmarket-backend/internal/repository"
)

type orderRepo struct {
	s *Store
}

func (r *orderRepo) Create(ctx context.Context, o *domain.RentOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextOrderID++
	o.ID = r.s.nextOrderID
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	// Store a copy so later caller mutations do not leak in.
	r.s.orders[o.ID] = *o
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int32) (*domain.RentOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
	}
	return &o, nil
}

func (r *orderRepo) Delete(ctx context.Context, id int32) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.orders, id)
	return nil
}

func sortOrders(orders []domain.RentOrder) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}

// listOrders assumes the caller holds at least a read lock.
func (r *orderRepo) listOrders(match func(*domain.RentOrder) bool) []domain.RentOrder {
	var result []domain.RentOrder
	for _, o := range r.s.orders {
		if match(&o) {
			result = append(result, o)
		}
	}
	sortOrders(result)
	return result
}

func (r *orderRepo) ListByRenter(ctx context.Context, renterID int32, status domain.OrderStatus) ([]domain.RentOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listOrders(func(o *domain.RentOrder) bool {
		return o.RenterID == renterID && o.Status == status
	}), nil
}

func (r *orderRepo) ListByPartner(ctx context.Context, partnerID int32, status domain.OrderStatus) ([]domain.RentOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listOrders(func(o *domain.RentOrder) bool {
		return o.PartnerID != nil && *o.PartnerID == partnerID && o.Status == status
	}), nil
}

func (r *orderRepo) ListOpen(ctx context.Context) ([]domain.RentOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listOrders(func(o *domain.RentOrder) bool {
		return o.Status.IsOpenForOffers()
	}), nil
}

func (r *orderRepo) GetActiveByRenter(ctx context.Context, renterID int32) (*domain.RentOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	active := r.listOrders(func(o *domain.RentOrder) bool {
		return o.RenterID == renterID && !o.Status.IsTerminal()
	})
	if len(active) == 0 {
		return nil, fmt.Errorf("%w: no active order for user %d", domain.ErrNotFound, renterID)
	}
	return &active[0], nil
}

func (r *orderRepo) ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RentOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listOrders(func(o *domain.RentOrder) bool {
		return o.Status.IsOpenForOffers() && o.CreatedAt.Before(cutoff)
	}), nil
}

func (r *orderRepo) UpdateStatusIf(ctx context.Context, id int32, from, to domain.OrderStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	r.s.orders[id] = o
	return true, nil
}

func (r *orderRepo) AcceptOffer(ctx context.Context, p repository.AcceptOfferParams) (*domain.RentOrder, *domain.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[p.OrderID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, p.OrderID)
	}
	if order.Status != domain.OrderStatusHasOffers {
		return nil, nil, fmt.Errorf("%w: order %d was resolved by a concurrent accept", domain.ErrConcurrentConflict, p.OrderID)
	}
	offer, ok := r.s.offers[p.OfferID]
	if !ok || offer.RentOrderID != p.OrderID || offer.Status != domain.OfferStatusPending {
		return nil, nil, fmt.Errorf("%w: offer %d is no longer pending", domain.ErrInvalidStateTransition, p.OfferID)
	}

	// The calendar check must happen under the same lock as the booking
	// insert, or two accepts on different orders could both pass it and
	// double-book the ship.
	if p.Booking != nil {
		for _, booked := range r.s.bookings {
			if booked.ShipID == p.Booking.ShipID && booked.Overlaps(p.Booking.Start, p.Booking.End) {
				return nil, nil, fmt.Errorf("%w: ship %d is already booked for an overlapping window", domain.ErrValidationFailed, p.Booking.ShipID)
			}
		}
	}

	at := p.At
	order.PartnerID = &p.PartnerID
	order.ShipID = &p.ShipID
	order.TotalPriceCents = &p.TotalPriceCents
	order.Status = domain.OrderStatusAgreed
	order.OrderDate = &at
	r.s.orders[order.ID] = order

	offer.Status = domain.OfferStatusAccepted
	offer.RespondedAt = &at
	r.s.offers[offer.ID] = offer

	for id, sibling := range r.s.offers {
		if sibling.RentOrderID == p.OrderID && sibling.Status == domain.OfferStatusPending {
			sibling.Status = domain.OfferStatusRejected
			sibling.RespondedAt = &at
			r.s.offers[id] = sibling
		}
	}

	if p.Booking != nil {
		r.s.nextBookingID++
		booking := *p.Booking
		booking.ID = r.s.nextBookingID
		r.s.bookings[booking.ID] = booking
	}

	return &order, &offer, nil
}

func (r *orderRepo) Terminate(ctx context.Context, id int32, to domain.OrderStatus, at time.Time) (*domain.RentOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
	}
	if order.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: order %d is already %s", domain.ErrInvalidStateTransition, id, order.Status)
	}

	order.Status = to
	order.CancelledAt = &at
	r.s.orders[id] = order

	for offerID, offer := range r.s.offers {
		if offer.RentOrderID == id && offer.Status == domain.OfferStatusPending {
			offer.Status = domain.OfferStatusRejected
			offer.RespondedAt = &at
			r.s.offers[offerID] = offer
		}
	}
	for bookingID, booking := range r.s.bookings {
		if booking.RentOrderID == id {
			delete(r.s.bookings, bookingID)
		}
	}

	return &order, nil
}
