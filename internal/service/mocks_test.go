package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"shipmarket-backend/internal/domain"
	"shipmarket-backend/internal/repository"
)

// MockOrderRepo
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *domain.RentOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockOrderRepo) GetByID(ctx context.Context, id int32) (*domain.RentOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentOrder), args.Error(1)
}
func (m *MockOrderRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockOrderRepo) ListByRenter(ctx context.Context, renterID int32, status domain.OrderStatus) ([]domain.RentOrder, error) {
	args := m.Called(ctx, renterID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentOrder), args.Error(1)
}
func (m *MockOrderRepo) ListByPartner(ctx context.Context, partnerID int32, status domain.OrderStatus) ([]domain.RentOrder, error) {
	args := m.Called(ctx, partnerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentOrder), args.Error(1)
}
func (m *MockOrderRepo) ListOpen(ctx context.Context) ([]domain.RentOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentOrder), args.Error(1)
}
func (m *MockOrderRepo) GetActiveByRenter(ctx context.Context, renterID int32) (*domain.RentOrder, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentOrder), args.Error(1)
}
func (m *MockOrderRepo) ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RentOrder, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentOrder), args.Error(1)
}
func (m *MockOrderRepo) UpdateStatusIf(ctx context.Context, id int32, from, to domain.OrderStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}
func (m *MockOrderRepo) AcceptOffer(ctx context.Context, p repository.AcceptOfferParams) (*domain.RentOrder, *domain.Offer, error) {
	args := m.Called(ctx, p)
	var order *domain.RentOrder
	var offer *domain.Offer
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.RentOrder)
	}
	if args.Get(1) != nil {
		offer = args.Get(1).(*domain.Offer)
	}
	return order, offer, args.Error(2)
}
func (m *MockOrderRepo) Terminate(ctx context.Context, id int32, to domain.OrderStatus, at time.Time) (*domain.RentOrder, error) {
	args := m.Called(ctx, id, to, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentOrder), args.Error(1)
}

// MockOfferRepo
type MockOfferRepo struct {
	mock.Mock
}

func (m *MockOfferRepo) Create(ctx context.Context, offer *domain.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}
func (m *MockOfferRepo) GetByID(ctx context.Context, id int32) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockOfferRepo) DeleteByOrder(ctx context.Context, orderID int32) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}
func (m *MockOfferRepo) ListByOrder(ctx context.Context, orderID int32) ([]domain.Offer, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) ListByPartner(ctx context.Context, partnerID int32) ([]domain.Offer, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) ListByRenter(ctx context.Context, renterID int32) ([]domain.Offer, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Offer, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) Reject(ctx context.Context, id int32, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

// MockShipRepo
type MockShipRepo struct {
	mock.Mock
}

func (m *MockShipRepo) GetByID(ctx context.Context, id int32) (*domain.Ship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ship), args.Error(1)
}

// MockPortRepo
type MockPortRepo struct {
	mock.Mock
}

func (m *MockPortRepo) GetByID(ctx context.Context, id int32) (*domain.Port, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Port), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockAvailabilityRepo
type MockAvailabilityRepo struct {
	mock.Mock
}

func (m *MockAvailabilityRepo) ListByShip(ctx context.Context, shipID int32) ([]domain.ShipAvailabilityRecord, error) {
	args := m.Called(ctx, shipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShipAvailabilityRecord), args.Error(1)
}
func (m *MockAvailabilityRepo) DeleteByOrder(ctx context.Context, orderID int32) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOfferReceivedNotification(ctx context.Context, renterEmail, renterName, shipName string, priceCents int32) error {
	args := m.Called(ctx, renterEmail, renterName, shipName, priceCents)
	return args.Error(0)
}
func (m *MockEmailService) SendOfferAcceptedNotification(ctx context.Context, partnerEmail, shipName string, priceCents int32) error {
	args := m.Called(ctx, partnerEmail, shipName, priceCents)
	return args.Error(0)
}
func (m *MockEmailService) SendOrderDiscontinuedNotification(ctx context.Context, renterEmail, renterName string, orderID int32) error {
	args := m.Called(ctx, renterEmail, renterName, orderID)
	return args.Error(0)
}
