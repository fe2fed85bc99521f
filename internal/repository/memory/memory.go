// Package memory holds mutex-guarded map implementations of the repository
// interfaces, used for local development and for tests that exercise the
// lifecycle engine without a database.
package memory

import (
	"sync"

	"shipmarket-backend/internal/domain"
	"shipmarket-backend/internal/repository"
)

// Store owns the shared in-process maps. One mutex covers all entity maps so
// the multi-entity lifecycle operations (accept, terminate) stay atomic,
// mirroring what the postgres store does with transactions. The per-entity
// repositories are views over this shared state.
type Store struct {
	mu sync.RWMutex

	orders   map[int32]domain.RentOrder
	offers   map[int32]domain.Offer
	ships    map[int32]domain.Ship
	ports    map[int32]domain.Port
	users    map[int32]domain.User
	bookings map[int32]domain.ShipAvailabilityRecord

	nextOrderID   int32
	nextOfferID   int32
	nextBookingID int32
}

func NewStore() *Store {
	return &Store{
		orders:   make(map[int32]domain.RentOrder),
		offers:   make(map[int32]domain.Offer),
		ships:    make(map[int32]domain.Ship),
		ports:    make(map[int32]domain.Port),
		users:    make(map[int32]domain.User),
		bookings: make(map[int32]domain.ShipAvailabilityRecord),
	}
}

func (s *Store) Orders() repository.OrderRepository { return &orderRepo{s: s} }

func (s *Store) Offers() repository.OfferRepository { return &offerRepo{s: s} }

func (s *Store) Ships() repository.ShipRepository { return &shipRepo{s: s} }

func (s *Store) Ports() repository.PortRepository { return &portRepo{s: s} }

func (s *Store) Users() repository.UserRepository { return &userRepo{s: s} }

func (s *Store) Availability() repository.AvailabilityRepository { return &availabilityRepo{s: s} }

// Seed helpers for reference data the core only reads.

func (s *Store) PutShip(ship domain.Ship) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ships[ship.ID] = ship
}

func (s *Store) PutPort(port domain.Port) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ports[port.ID] = port
}

func (s *Store) PutUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}
