package memory

import (
	"context"
	"fmt"

	"shipmarket-backend/internal/domain"
)

type shipRepo struct {
	s *Store
}

func (r *shipRepo) GetByID(ctx context.Context, id int32) (*domain.Ship, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ship, ok := r.s.ships[id]
	if !ok {
		return nil, fmt.Errorf("%w: ship %d", domain.ErrNotFound, id)
	}
	return &ship, nil
}

type portRepo struct {
	s *Store
}

func (r *portRepo) GetByID(ctx context.Context, id int32) (*domain.Port, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	port, ok := r.s.ports[id]
	if !ok {
		return nil, fmt.Errorf("%w: port %d", domain.ErrNotFound, id)
	}
	return &port, nil
}

type userRepo struct {
	s *Store
}

func (r *userRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return &user, nil
}
