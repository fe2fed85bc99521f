package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shipmarket-backend/internal/domain"
	"shipmarket-backend/internal/repository"
)

type shipRepository struct {
	db *sql.DB
}

func NewShipRepository(db *sql.DB) repository.ShipRepository {
	return &shipRepository{db: db}
}

func (r *shipRepository) GetByID(ctx context.Context, id int32) (*domain.Ship, error) {
	s := &domain.Ship{}
	query := `SELECT id, partner_id, ship_type_id, port_id, name, capacity FROM ships WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.PartnerID, &s.ShipTypeID, &s.PortID, &s.Name, &s.Capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: ship %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
