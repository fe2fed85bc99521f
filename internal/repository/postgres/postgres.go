package postgres

import (
	"database/sql"

	"shipmarket-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.OrderRepository
	repository.OfferRepository
	repository.ShipRepository
	repository.PortRepository
	repository.UserRepository
	repository.AvailabilityRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		OrderRepository:        NewOrderRepository(db),
		OfferRepository:        NewOfferRepository(db),
		ShipRepository:         NewShipRepository(db),
		PortRepository:         NewPortRepository(db),
		UserRepository:         NewUserRepository(db),
		AvailabilityRepository: NewAvailabilityRepository(db),
	}
}
