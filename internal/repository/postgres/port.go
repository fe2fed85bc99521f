package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shipmarket-backend/internal/domain"
	"shipmarket-backend/internal/repository"
)

type portRepository struct {
	db *sql.DB
}

func NewPortRepository(db *sql.DB) repository.PortRepository {
	return &portRepository{db: db}
}

func (r *portRepository) GetByID(ctx context.Context, id int32) (*domain.Port, error) {
	p := &domain.Port{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM ports WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: port %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
