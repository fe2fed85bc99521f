package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shipmarket-backend/internal/domain"
	"shipmarket-backend/internal/repository"
	"shipmarket-backend/internal/service"
)

type serviceFixture struct {
	orderRepo *MockOrderRepo
	offerRepo *MockOfferRepo
	shipRepo  *MockShipRepo
	portRepo  *MockPortRepo
	userRepo  *MockUserRepo
	availRepo *MockAvailabilityRepo
	emailSvc  *MockEmailService
	svc       service.OrderService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		orderRepo: new(MockOrderRepo),
		offerRepo: new(MockOfferRepo),
		shipRepo:  new(MockShipRepo),
		portRepo:  new(MockPortRepo),
		userRepo:  new(MockUserRepo),
		availRepo: new(MockAvailabilityRepo),
		emailSvc:  new(MockEmailService),
	}
	validator := service.NewAvailabilityValidator(f.availRepo)
	f.svc = service.NewOrderService(
		f.orderRepo, f.offerRepo, f.shipRepo, f.portRepo,
		f.userRepo, f.availRepo, validator, f.emailSvc,
	)
	return f
}

func validOrderSpec() service.CreateOrderSpec {
	end := time.Now().Add(72 * time.Hour)
	return service.CreateOrderSpec{
		DesiredShipTypeID: 1,
		DeparturePortID:   10,
		PassengerCount:    4,
		RentalStart:       time.Now().Add(24 * time.Hour),
		RentalEnd:         &end,
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	renterID := int32(1)

	t.Run("Success", func(t *testing.T) {
		f := newServiceFixture()
		f.portRepo.On("GetByID", ctx, int32(10)).Return(&domain.Port{ID: 10, Name: "Rotterdam"}, nil)
		f.orderRepo.On("Create", ctx, mock.AnythingOfType("*domain.RentOrder")).Return(nil)

		order, err := f.svc.CreateOrder(ctx, renterID, validOrderSpec())
		assert.NoError(t, err)
		assert.NotNil(t, order)
		assert.Equal(t, renterID, order.RenterID)
		assert.Equal(t, domain.OrderStatusAwaitingPartnerResponse, order.Status)
		assert.Nil(t, order.PartnerID)
		assert.Nil(t, order.TotalPriceCents)
	})

	t.Run("NonPositivePassengerCount", func(t *testing.T) {
		f := newServiceFixture()
		spec := validOrderSpec()
		spec.PassengerCount = 0

		order, err := f.svc.CreateOrder(ctx, renterID, spec)
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
		assert.Nil(t, order)
		f.orderRepo.AssertNotCalled(t, "Create")
	})

	t.Run("StartInPast", func(t *testing.T) {
		f := newServiceFixture()
		spec := validOrderSpec()
		spec.RentalStart = time.Now().Add(-time.Hour)
		spec.RentalEnd = nil

		_, err := f.svc.CreateOrder(ctx, renterID, spec)
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		f := newServiceFixture()
		spec := validOrderSpec()
		end := spec.RentalStart.Add(-time.Hour)
		spec.RentalEnd = &end

		_, err := f.svc.CreateOrder(ctx, renterID, spec)
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})

	t.Run("UnknownDeparturePort", func(t *testing.T) {
		f := newServiceFixture()
		f.portRepo.On("GetByID", ctx, int32(10)).Return(nil, domain.ErrNotFound)

		_, err := f.svc.CreateOrder(ctx, renterID, validOrderSpec())
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})
}

func TestOrderService_SubmitOffer(t *testing.T) {
	ctx := context.Background()
	partnerID := int32(20)
	openOrder := func() *domain.RentOrder {
		return &domain.RentOrder{
			ID:                5,
			RenterID:          1,
			DesiredShipTypeID: 2,
			DeparturePortID:   10,
			PassengerCount:    4,
			RentalStart:       time.Now().Add(24 * time.Hour),
			Status:            domain.OrderStatusAwaitingPartnerResponse,
		}
	}
	eligibleShip := &domain.Ship{ID: 7, PartnerID: partnerID, ShipTypeID: 2, PortID: 10, Name: "Mare", Capacity: 8}

	t.Run("SuccessFlipsOrderStatus", func(t *testing.T) {
		f := newServiceFixture()
		f.orderRepo.On("GetByID", ctx, int32(5)).Return(openOrder(), nil)
		f.shipRepo.On("GetByID", ctx, int32(7)).Return(eligibleShip, nil)
		f.offerRepo.On("Create", ctx, mock.AnythingOfType("*domain.Offer")).Return(nil)
		f.orderRepo.On("UpdateStatusIf", ctx, int32(5), domain.OrderStatusAwaitingPartnerResponse, domain.OrderStatusHasOffers).Return(true, nil)
		f.userRepo.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Email: "renter@test.com", Name: "Renter"}, nil)
		f.emailSvc.On("SendOfferReceivedNotification", ctx, "renter@test.com", "Renter", "Mare", int32(50000)).Return(nil)

		offer, err := f.svc.SubmitOffer(ctx, partnerID, service.SubmitOfferSpec{
			RentOrderID: 5, ShipID: 7, OfferedPriceCents: 50000,
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.OfferStatusPending, offer.Status)
		assert.Equal(t, partnerID, offer.PartnerID)
		f.orderRepo.AssertCalled(t, "UpdateStatusIf", ctx, int32(5), domain.OrderStatusAwaitingPartnerResponse, domain.OrderStatusHasOffers)
	})

	t.Run("OrderNotOpen", func(t *testing.T) {
		f := newServiceFixture()
		agreed := openOrder()
		agreed.Status = domain.OrderStatusAgreed
		f.orderRepo.On("GetByID", ctx, int32(5)).Return(agreed, nil)

		_, err := f.svc.SubmitOffer(ctx, partnerID, service.SubmitOfferSpec{RentOrderID: 5, ShipID: 7, OfferedPriceCents: 50000})
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
		f.offerRepo.AssertNotCalled(t, "Create")
	})

	t.Run("ShipNotOwnedByPartner", func(t *testing.T) {
		f := newServiceFixture()
		f.orderRepo.On("GetByID", ctx, int32(5)).Return(openOrder(), nil)
		foreign := *eligibleShip
		foreign.PartnerID = 99
		f.shipRepo.On("GetByID", ctx, int32(7)).Return(&foreign, nil)

		_, err := f.svc.SubmitOffer(ctx, partnerID, service.SubmitOfferSpec{RentOrderID: 5, ShipID: 7, OfferedPriceCents: 50000})
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})

	t.Run("ShipTooSmall", func(t *testing.T) {
		f := newServiceFixture()
		f.orderRepo.On("GetByID", ctx, int32(5)).Return(openOrder(), nil)
		small := *eligibleShip
		small.Capacity = 2
		f.shipRepo.On("GetByID", ctx, int32(7)).Return(&small, nil)

		_, err := f.svc.SubmitOffer(ctx, partnerID, service.SubmitOfferSpec{RentOrderID: 5, ShipID: 7, OfferedPriceCents: 50000})
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})
}

func TestOrderService_AcceptOffer(t *testing.T) {
	ctx := context.Background()
	orderWithOffers := func() *domain.RentOrder {
		return &domain.RentOrder{
			ID:              5,
			RenterID:        1,
			DeparturePortID: 10,
			RentalStart:     time.Now().Add(24 * time.Hour),
			Status:          domain.OrderStatusHasOffers,
		}
	}
	pendingOffer := func() *domain.Offer {
		return &domain.Offer{
			ID: 3, RentOrderID: 5, PartnerID: 20, ShipID: 7,
			OfferedPriceCents: 50000, Status: domain.OfferStatusPending,
		}
	}

	t.Run("Success", func(t *testing.T) {
		f := newServiceFixture()
		f.orderRepo.On("GetByID", ctx, int32(5)).Return(orderWithOffers(), nil)
		f.offerRepo.On("GetByID", ctx, int32(3)).Return(pendingOffer(), nil)
		f.availRepo.On("ListByShip", ctx, int32(7)).Return([]domain.ShipAvailabilityRecord{}, nil)

		partnerID := int32(20)
		shipID := int32(7)
		price := int32(50000)
		agreed := orderWithOffers()
		agreed.Status = domain.OrderStatusAgreed
		agreed.PartnerID = &partnerID
		agreed.ShipID = &shipID
		agreed.TotalPriceCents = &price
		accepted := pendingOffer()
		accepted.Status = domain.OfferStatusAccepted
		f.orderRepo.On("AcceptOffer", ctx, mock.AnythingOfType("repository.AcceptOfferParams")).Return(agreed, accepted, nil)
		f.userRepo.On("GetByID", ctx, int32(20)).Return(&domain.User{ID: 20, Email: "partner@test.com"}, nil)
		f.shipRepo.On("GetByID", ctx, int32(7)).Return(&domain.Ship{ID: 7, Name: "Mare"}, nil)
		f.emailSvc.On("SendOfferAcceptedNotification", ctx, "partner@test.com", "Mare", int32(50000)).Return(nil)

		res, err := f.svc.AcceptOffer(ctx, 5, 3)
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusAgreed, res.Status)
		assert.Equal(t, int32(20), *res.PartnerID)
		assert.Equal(t, int32(50000), *res.TotalPriceCents)

		call := f.orderRepo.Calls[1]
		params := call.Arguments.Get(1).(repository.AcceptOfferParams)
		assert.Equal(t, int32(7), params.Booking.ShipID)
		assert.Equal(t, int32(5), params.Booking.RentOrderID)
	})

	t.Run("OrderAlreadyAgreed", func(t *testing.T) {
		f := newServiceFixture()
		agreed := orderWithOffers()
		agreed.Status = domain.OrderStatusAgreed
		f.orderRepo.On("GetByID", ctx, int32(5)).Return(agreed, nil)
		f.offerRepo.On("GetByID", ctx, int32(3)).Return(pendingOffer(), nil)

		_, err := f.svc.AcceptOffer(ctx, 5, 3)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
		f.orderRepo.AssertNotCalled(t, "AcceptOffer")
	})

	t.Run("OfferAlreadyRejected", func(t *testing.T) {
		f := newServiceFixture()
		f.orderRepo.On("GetByID", ctx, int32(5)).Return(orderWithOffers(), nil)
		rejected := pendingOffer()
		rejected.Status = domain.OfferStatusRejected
		f.offerRepo.On("GetByID", ctx, int32(3)).Return(rejected, nil)

		_, err := f.svc.AcceptOffer(ctx, 5, 3)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})

	t.Run("OfferFromDifferentOrder", func(t *testing.T) {
		f := newServiceFixture()
		f.orderRepo.On("GetByID", ctx, int32(5)).Return(orderWithOffers(), nil)
		other := pendingOffer()
		other.RentOrderID = 99
		f.offerRepo.On("GetByID", ctx, int32(3)).Return(other, nil)

		_, err := f.svc.AcceptOffer(ctx, 5, 3)
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})

	t.Run("ShipBookedForOverlappingWindow", func(t *testing.T) {
		f := newServiceFixture()
		order := orderWithOffers()
		f.orderRepo.On("GetByID", ctx, int32(5)).Return(order, nil)
		f.offerRepo.On("GetByID", ctx, int32(3)).Return(pendingOffer(), nil)
		f.availRepo.On("ListByShip", ctx, int32(7)).Return([]domain.ShipAvailabilityRecord{
			{ID: 1, ShipID: 7, RentOrderID: 42, Start: order.RentalStart.Add(-time.Hour)},
		}, nil)

		_, err := f.svc.AcceptOffer(ctx, 5, 3)
		assert.ErrorIs(t, err, domain.ErrValidationFailed)
		f.orderRepo.AssertNotCalled(t, "AcceptOffer")
	})

	t.Run("LostRaceReturnsConcurrentConflict", func(t *testing.T) {
		f := newServiceFixture()
		f.orderRepo.On("GetByID", ctx, int32(5)).Return(orderWithOffers(), nil)
		f.offerRepo.On("GetByID", ctx, int32(3)).Return(pendingOffer(), nil)
		f.availRepo.On("ListByShip", ctx, int32(7)).Return([]domain.ShipAvailabilityRecord{}, nil)
		f.orderRepo.On("AcceptOffer", ctx, mock.AnythingOfType("repository.AcceptOfferParams")).Return(nil, nil, domain.ErrConcurrentConflict)

		_, err := f.svc.AcceptOffer(ctx, 5, 3)
		assert.ErrorIs(t, err, domain.ErrConcurrentConflict)
	})
}

func TestOrderService_RejectOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newServiceFixture()
		f.offerRepo.On("GetByID", ctx, int32(3)).Return(&domain.Offer{ID: 3, RentOrderID: 5, PartnerID: 20, Status: domain.OfferStatusPending}, nil)
		f.offerRepo.On("Reject", ctx, int32(3), mock.AnythingOfType("time.Time")).Return(true, nil)

		offer, err := f.svc.RejectOffer(ctx, 3)
		assert.NoError(t, err)
		assert.Equal(t, domain.OfferStatusRejected, offer.Status)
		assert.NotNil(t, offer.RespondedAt)
	})

	t.Run("AlreadyResolved", func(t *testing.T) {
		f := newServiceFixture()
		f.offerRepo.On("GetByID", ctx, int32(3)).Return(&domain.Offer{ID: 3, Status: domain.OfferStatusAccepted}, nil)
		f.offerRepo.On("Reject", ctx, int32(3), mock.AnythingOfType("time.Time")).Return(false, nil)

		_, err := f.svc.RejectOffer(ctx, 3)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})
}

func TestOrderService_CompleteOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newServiceFixture()
		f.orderRepo.On("GetByID", ctx, int32(5)).Return(&domain.RentOrder{ID: 5, Status: domain.OrderStatusAgreed}, nil)
		f.orderRepo.On("UpdateStatusIf", ctx, int32(5), domain.OrderStatusAgreed, domain.OrderStatusCompleted).Return(true, nil)

		order, err := f.svc.CompleteOrder(ctx, 5)
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	})

	t.Run("NotAgreed", func(t *testing.T) {
		f := newServiceFixture()
		f.orderRepo.On("GetByID", ctx, int32(5)).Return(&domain.RentOrder{ID: 5, Status: domain.OrderStatusHasOffers}, nil)

		_, err := f.svc.CompleteOrder(ctx, 5)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	})

	t.Run("ChangedUnderneath", func(t *testing.T) {
		f := newServiceFixture()
		f.orderRepo.On("GetByID", ctx, int32(5)).Return(&domain.RentOrder{ID: 5, Status: domain.OrderStatusAgreed}, nil)
		f.orderRepo.On("UpdateStatusIf", ctx, int32(5), domain.OrderStatusAgreed, domain.OrderStatusCompleted).Return(false, nil)

		_, err := f.svc.CompleteOrder(ctx, 5)
		assert.ErrorIs(t, err, domain.ErrConcurrentConflict)
	})
}

func TestOrderService_DiscontinueOrder(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	discontinued := &domain.RentOrder{ID: 5, RenterID: 1, Status: domain.OrderStatusDiscontinued}
	f.orderRepo.On("Terminate", ctx, int32(5), domain.OrderStatusDiscontinued, mock.AnythingOfType("time.Time")).Return(discontinued, nil)
	f.userRepo.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Email: "renter@test.com", Name: "Renter"}, nil)
	f.emailSvc.On("SendOrderDiscontinuedNotification", ctx, "renter@test.com", "Renter", int32(5)).Return(nil)

	order, err := f.svc.DiscontinueOrder(ctx, 5)
	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDiscontinued, order.Status)
	f.emailSvc.AssertCalled(t, "SendOrderDiscontinuedNotification", ctx, "renter@test.com", "Renter", int32(5))
}

func TestOrderService_GetAvailableOrdersForPartner(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	f.orderRepo.On("ListOpen", ctx).Return([]domain.RentOrder{
		{ID: 1, RenterID: 20, Status: domain.OrderStatusAwaitingPartnerResponse},
		{ID: 2, RenterID: 1, Status: domain.OrderStatusHasOffers},
	}, nil)

	orders, err := f.svc.GetAvailableOrdersForPartner(ctx, 20)
	assert.NoError(t, err)
	// A partner never sees their own requests in the available list.
	assert.Len(t, orders, 1)
	assert.Equal(t, int32(2), orders[0].ID)
}

func TestOrderService_DeleteOrderCascades(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	f.orderRepo.On("GetByID", ctx, int32(5)).Return(&domain.RentOrder{ID: 5}, nil)
	f.offerRepo.On("DeleteByOrder", ctx, int32(5)).Return(nil)
	f.availRepo.On("DeleteByOrder", ctx, int32(5)).Return(nil)
	f.orderRepo.On("Delete", ctx, int32(5)).Return(nil)

	err := f.svc.DeleteOrder(ctx, 5)
	assert.NoError(t, err)
	f.offerRepo.AssertCalled(t, "DeleteByOrder", ctx, int32(5))
	f.availRepo.AssertCalled(t, "DeleteByOrder", ctx, int32(5))
}
