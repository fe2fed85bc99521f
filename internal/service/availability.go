package service

import (
	"context"
	"fmt"
	"time"

	"shipmarket-backend/internal/domain"
	"shipmarket-backend/internal/repository"
)

type availabilityValidator struct {
	availRepo repository.AvailabilityRepository
}

func NewAvailabilityValidator(availRepo repository.AvailabilityRepository) AvailabilityValidator {
	return &availabilityValidator{availRepo: availRepo}
}

func (v *availabilityValidator) ValidateShipForOrder(ship *domain.Ship, order *domain.RentOrder) error {
	if ship.ShipTypeID != order.DesiredShipTypeID {
		return fmt.Errorf("%w: ship %d has type %d, order wants type %d", domain.ErrValidationFailed, ship.ID, ship.ShipTypeID, order.DesiredShipTypeID)
	}
	if ship.PortID != order.DeparturePortID {
		return fmt.Errorf("%w: ship %d is at port %d, order departs from port %d", domain.ErrValidationFailed, ship.ID, ship.PortID, order.DeparturePortID)
	}
	if ship.Capacity < order.PassengerCount {
		return fmt.Errorf("%w: ship %d holds %d passengers, order needs %d", domain.ErrValidationFailed, ship.ID, ship.Capacity, order.PassengerCount)
	}
	return nil
}

func (v *availabilityValidator) HasOverlap(ctx context.Context, shipID int32, start time.Time, end *time.Time, excludeRecordID int32) (bool, error) {
	records, err := v.availRepo.ListByShip(ctx, shipID)
	if err != nil {
		return false, err
	}
	for i := range records {
		if excludeRecordID != 0 && records[i].ID == excludeRecordID {
			continue
		}
		if records[i].Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}
