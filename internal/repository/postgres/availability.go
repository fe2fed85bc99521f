package postgres

import (
	"context"
	"database/sql"

	"shipmarket-backend/internal/domain"
	"shipmarket-backend/internal/repository"
)

type availabilityRepository struct {
	db *sql.DB
}

func NewAvailabilityRepository(db *sql.DB) repository.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) ListByShip(ctx context.Context, shipID int32) ([]domain.ShipAvailabilityRecord, error) {
	query := `SELECT id, ship_id, rent_order_id, departure_port_id, arrival_port_id, start_date, end_date
	          FROM ship_availability WHERE ship_id = $1 ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, shipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ShipAvailabilityRecord
	for rows.Next() {
		var rec domain.ShipAvailabilityRecord
		if err := rows.Scan(&rec.ID, &rec.ShipID, &rec.RentOrderID, &rec.DeparturePortID, &rec.ArrivalPortID, &rec.Start, &rec.End); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *availabilityRepository) DeleteByOrder(ctx context.Context, orderID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM ship_availability WHERE rent_order_id = $1`, orderID)
	return err
}
