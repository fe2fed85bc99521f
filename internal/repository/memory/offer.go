package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"shipmarket-backend/internal/domain"
)

type offerRepo struct {
	s *Store
}

func (r *offerRepo) Create(ctx context.Context, o *domain.Offer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextOfferID++
	o.ID = r.s.nextOfferID
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	r.s.offers[o.ID] = *o
	return nil
}

func (r *offerRepo) GetByID(ctx context.Context, id int32) (*domain.Offer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.offers[id]
	if !ok {
		return nil, fmt.Errorf("%w: offer %d", domain.ErrNotFound, id)
	}
	return &o, nil
}

func (r *offerRepo) Delete(ctx context.Context, id int32) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.offers, id)
	return nil
}

func (r *offerRepo) DeleteByOrder(ctx context.Context, orderID int32) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, o := range r.s.offers {
		if o.RentOrderID == orderID {
			delete(r.s.offers, id)
		}
	}
	return nil
}

func sortOffers(offers []domain.Offer) {
	sort.Slice(offers, func(i, j int) bool {
		if !offers[i].CreatedAt.Equal(offers[j].CreatedAt) {
			return offers[i].CreatedAt.After(offers[j].CreatedAt)
		}
		return offers[i].ID > offers[j].ID
	})
}

// listOffers assumes the caller holds at least a read lock.
func (r *offerRepo) listOffers(match func(*domain.Offer) bool) []domain.Offer {
	var result []domain.Offer
	for _, o := range r.s.offers {
		if match(&o) {
			result = append(result, o)
		}
	}
	sortOffers(result)
	return result
}

func (r *offerRepo) ListByOrder(ctx context.Context, orderID int32) ([]domain.Offer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listOffers(func(o *domain.Offer) bool {
		return o.RentOrderID == orderID
	}), nil
}

func (r *offerRepo) ListByPartner(ctx context.Context, partnerID int32) ([]domain.Offer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listOffers(func(o *domain.Offer) bool {
		return o.PartnerID == partnerID
	}), nil
}

func (r *offerRepo) ListByRenter(ctx context.Context, renterID int32) ([]domain.Offer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listOffers(func(o *domain.Offer) bool {
		order, ok := r.s.orders[o.RentOrderID]
		return ok && order.RenterID == renterID
	}), nil
}

func (r *offerRepo) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Offer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.listOffers(func(o *domain.Offer) bool {
		return o.Status == domain.OfferStatusPending && o.CreatedAt.Before(cutoff)
	}), nil
}

func (r *offerRepo) Reject(ctx context.Context, id int32, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.offers[id]
	if !ok || o.Status != domain.OfferStatusPending {
		return false, nil
	}
	o.Status = domain.OfferStatusRejected
	o.RespondedAt = &at
	r.s.offers[id] = o
	return true, nil
}
