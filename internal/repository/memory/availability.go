package memory

import (
	"context"
	"sort"

	"shipmarket-backend/internal/domain"
)

type availabilityRepo struct {
	s *Store
}

func (r *availabilityRepo) ListByShip(ctx context.Context, shipID int32) ([]domain.ShipAvailabilityRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var records []domain.ShipAvailabilityRecord
	for _, rec := range r.s.bookings {
		if rec.ShipID == shipID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Start.Before(records[j].Start)
	})
	return records, nil
}

func (r *availabilityRepo) DeleteByOrder(ctx context.Context, orderID int32) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, rec := range r.s.bookings {
		if rec.RentOrderID == orderID {
			delete(r.s.bookings, id)
		}
	}
	return nil
}
