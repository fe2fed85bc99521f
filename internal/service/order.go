package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shipmarket-backend/internal/domain"
	"shipmarket-backend/internal/logger"
	"shipmarket-backend/internal/metrics"
	"shipmarket-backend/internal/repository"
)

type orderService struct {
	orderRepo repository.OrderRepository
	offerRepo repository.OfferRepository
	shipRepo  repository.ShipRepository
	portRepo  repository.PortRepository
	userRepo  repository.UserRepository
	availRepo repository.AvailabilityRepository
	validator AvailabilityValidator
	emailSvc  EmailService
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	offerRepo repository.OfferRepository,
	shipRepo repository.ShipRepository,
	portRepo repository.PortRepository,
	userRepo repository.UserRepository,
	availRepo repository.AvailabilityRepository,
	validator AvailabilityValidator,
	emailSvc EmailService,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		offerRepo: offerRepo,
		shipRepo:  shipRepo,
		portRepo:  portRepo,
		userRepo:  userRepo,
		availRepo: availRepo,
		validator: validator,
		emailSvc:  emailSvc,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, renterID int32, spec CreateOrderSpec) (*domain.RentOrder, error) {
	if spec.PassengerCount <= 0 {
		return nil, fmt.Errorf("%w: passenger count must be positive", domain.ErrValidationFailed)
	}
	if !spec.RentalStart.After(time.Now()) {
		return nil, fmt.Errorf("%w: rental start must be in the future", domain.ErrValidationFailed)
	}
	if spec.RentalEnd != nil && !spec.RentalEnd.After(spec.RentalStart) {
		return nil, fmt.Errorf("%w: rental end must be after rental start", domain.ErrValidationFailed)
	}
	if _, err := s.portRepo.GetByID(ctx, spec.DeparturePortID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown departure port %d", domain.ErrValidationFailed, spec.DeparturePortID)
		}
		return nil, err
	}
	if spec.ArrivalPortID != nil {
		if _, err := s.portRepo.GetByID(ctx, *spec.ArrivalPortID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown arrival port %d", domain.ErrValidationFailed, *spec.ArrivalPortID)
			}
			return nil, err
		}
	}

	order := &domain.RentOrder{
		RenterID:          renterID,
		DesiredShipTypeID: spec.DesiredShipTypeID,
		DeparturePortID:   spec.DeparturePortID,
		ArrivalPortID:     spec.ArrivalPortID,
		PassengerCount:    spec.PassengerCount,
		RentalStart:       spec.RentalStart,
		RentalEnd:         spec.RentalEnd,
		Status:            domain.OrderStatusAwaitingPartnerResponse,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	metrics.OrdersCreated.Inc()
	return order, nil
}

func (s *orderService) SubmitOffer(ctx context.Context, partnerID int32, spec SubmitOfferSpec) (*domain.Offer, error) {
	order, err := s.orderRepo.GetByID(ctx, spec.RentOrderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.IsOpenForOffers() {
		return nil, fmt.Errorf("%w: order %d is %s and no longer accepts offers", domain.ErrInvalidStateTransition, order.ID, order.Status)
	}

	ship, err := s.shipRepo.GetByID(ctx, spec.ShipID)
	if err != nil {
		return nil, err
	}
	if ship.PartnerID != partnerID {
		return nil, fmt.Errorf("%w: ship %d does not belong to partner %d", domain.ErrValidationFailed, ship.ID, partnerID)
	}
	if err := s.validator.ValidateShipForOrder(ship, order); err != nil {
		return nil, err
	}

	offer := &domain.Offer{
		RentOrderID:       order.ID,
		PartnerID:         partnerID,
		ShipID:            ship.ID,
		OfferedPriceCents: spec.OfferedPriceCents,
		Status:            domain.OfferStatusPending,
	}
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}

	if order.Status == domain.OrderStatusAwaitingPartnerResponse {
		// Conditional flip: a concurrent first offer may have flipped the
		// order already, which is fine either way.
		if _, err := s.orderRepo.UpdateStatusIf(ctx, order.ID, domain.OrderStatusAwaitingPartnerResponse, domain.OrderStatusHasOffers); err != nil {
			return nil, err
		}
	}

	s.notifyOfferReceived(ctx, order, ship, offer)
	return offer, nil
}

func (s *orderService) notifyOfferReceived(ctx context.Context, order *domain.RentOrder, ship *domain.Ship, offer *domain.Offer) {
	renter, err := s.userRepo.GetByID(ctx, order.RenterID)
	if err != nil {
		logger.Warn("Skipping offer notification", "order_id", order.ID, "error", err)
		return
	}
	if err := s.emailSvc.SendOfferReceivedNotification(ctx, renter.Email, renter.Name, ship.Name, offer.OfferedPriceCents); err != nil {
		logger.Warn("Failed to send offer notification", "order_id", order.ID, "error", err)
	}
}

func (s *orderService) AcceptOffer(ctx context.Context, orderID, offerID int32) (*domain.RentOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.RentOrderID != orderID {
		return nil, fmt.Errorf("%w: offer %d does not belong to order %d", domain.ErrValidationFailed, offerID, orderID)
	}
	if order.Status != domain.OrderStatusHasOffers {
		return nil, fmt.Errorf("%w: order %d is %s", domain.ErrInvalidStateTransition, orderID, order.Status)
	}
	if offer.Status != domain.OfferStatusPending {
		return nil, fmt.Errorf("%w: offer %d is already %s", domain.ErrInvalidStateTransition, offerID, offer.Status)
	}

	// Early reject for a ship already booked across an overlapping window.
	// The store re-checks the calendar inside the atomic accept; this check
	// only spares doomed calls the repository round trip.
	overlaps, err := s.validator.HasOverlap(ctx, offer.ShipID, order.RentalStart, order.RentalEnd, 0)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, fmt.Errorf("%w: ship %d is already booked for an overlapping window", domain.ErrValidationFailed, offer.ShipID)
	}

	now := time.Now()
	booking := &domain.ShipAvailabilityRecord{
		ShipID:          offer.ShipID,
		RentOrderID:     order.ID,
		DeparturePortID: &order.DeparturePortID,
		ArrivalPortID:   order.ArrivalPortID,
		Start:           order.RentalStart,
		End:             order.RentalEnd,
	}
	updated, accepted, err := s.orderRepo.AcceptOffer(ctx, repository.AcceptOfferParams{
		OrderID:         order.ID,
		OfferID:         offer.ID,
		PartnerID:       offer.PartnerID,
		ShipID:          offer.ShipID,
		TotalPriceCents: offer.OfferedPriceCents,
		At:              now,
		Booking:         booking,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConcurrentConflict) {
			metrics.AcceptConflicts.Inc()
		}
		return nil, err
	}

	s.notifyOfferAccepted(ctx, accepted)
	return updated, nil
}

func (s *orderService) notifyOfferAccepted(ctx context.Context, offer *domain.Offer) {
	partner, err := s.userRepo.GetByID(ctx, offer.PartnerID)
	if err != nil {
		logger.Warn("Skipping acceptance notification", "offer_id", offer.ID, "error", err)
		return
	}
	shipName := ""
	if ship, err := s.shipRepo.GetByID(ctx, offer.ShipID); err == nil {
		shipName = ship.Name
	}
	if err := s.emailSvc.SendOfferAcceptedNotification(ctx, partner.Email, shipName, offer.OfferedPriceCents); err != nil {
		logger.Warn("Failed to send acceptance notification", "offer_id", offer.ID, "error", err)
	}
}

func (s *orderService) RejectOffer(ctx context.Context, offerID int32) (*domain.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	rejected, err := s.offerRepo.Reject(ctx, offerID, now)
	if err != nil {
		return nil, err
	}
	if !rejected {
		return nil, fmt.Errorf("%w: offer %d is already resolved", domain.ErrInvalidStateTransition, offerID)
	}
	offer.Status = domain.OfferStatusRejected
	offer.RespondedAt = &now
	return offer, nil
}

func (s *orderService) CancelOrder(ctx context.Context, orderID int32) (*domain.RentOrder, error) {
	return s.orderRepo.Terminate(ctx, orderID, domain.OrderStatusCancelled, time.Now())
}

func (s *orderService) DiscontinueOrder(ctx context.Context, orderID int32) (*domain.RentOrder, error) {
	order, err := s.orderRepo.Terminate(ctx, orderID, domain.OrderStatusDiscontinued, time.Now())
	if err != nil {
		return nil, err
	}
	if renter, uerr := s.userRepo.GetByID(ctx, order.RenterID); uerr == nil {
		if merr := s.emailSvc.SendOrderDiscontinuedNotification(ctx, renter.Email, renter.Name, order.ID); merr != nil {
			logger.Warn("Failed to send discontinuation notification", "order_id", order.ID, "error", merr)
		}
	}
	return order, nil
}

func (s *orderService) CompleteOrder(ctx context.Context, orderID int32) (*domain.RentOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusAgreed {
		return nil, fmt.Errorf("%w: order %d is %s, only agreed orders can complete", domain.ErrInvalidStateTransition, orderID, order.Status)
	}
	applied, err := s.orderRepo.UpdateStatusIf(ctx, orderID, domain.OrderStatusAgreed, domain.OrderStatusCompleted)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("%w: order %d changed state during completion", domain.ErrConcurrentConflict, orderID)
	}
	order.Status = domain.OrderStatusCompleted
	return order, nil
}

// DeleteOrder is the administrative hard-delete path, not reachable from the
// normal lifecycle. It removes the order's offers and ship bookings with it.
func (s *orderService) DeleteOrder(ctx context.Context, orderID int32) error {
	if _, err := s.orderRepo.GetByID(ctx, orderID); err != nil {
		return err
	}
	if err := s.offerRepo.DeleteByOrder(ctx, orderID); err != nil {
		return err
	}
	if err := s.availRepo.DeleteByOrder(ctx, orderID); err != nil {
		return err
	}
	return s.orderRepo.Delete(ctx, orderID)
}

func (s *orderService) DeleteOffer(ctx context.Context, offerID int32) error {
	if _, err := s.offerRepo.GetByID(ctx, offerID); err != nil {
		return err
	}
	return s.offerRepo.Delete(ctx, offerID)
}

func (s *orderService) GetOrder(ctx context.Context, orderID int32) (*domain.RentOrder, error) {
	return s.orderRepo.GetByID(ctx, orderID)
}

func (s *orderService) GetActiveOrderForUser(ctx context.Context, userID int32) (*domain.RentOrder, error) {
	return s.orderRepo.GetActiveByRenter(ctx, userID)
}

func (s *orderService) GetOrdersForUserByStatus(ctx context.Context, userID int32, status domain.OrderStatus) ([]domain.RentOrder, error) {
	return s.orderRepo.ListByRenter(ctx, userID, status)
}

func (s *orderService) GetOrdersForPartnerByStatus(ctx context.Context, partnerID int32, status domain.OrderStatus) ([]domain.RentOrder, error) {
	return s.orderRepo.ListByPartner(ctx, partnerID, status)
}

func (s *orderService) GetAvailableOrdersForPartner(ctx context.Context, partnerID int32) ([]domain.RentOrder, error) {
	open, err := s.orderRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	// A partner does not get their own requests offered back to them.
	available := make([]domain.RentOrder, 0, len(open))
	for _, o := range open {
		if o.RenterID != partnerID {
			available = append(available, o)
		}
	}
	return available, nil
}

func (s *orderService) GetOffersByOrder(ctx context.Context, orderID int32) ([]domain.Offer, error) {
	return s.offerRepo.ListByOrder(ctx, orderID)
}

func (s *orderService) GetOffersByPartner(ctx context.Context, partnerID int32) ([]domain.Offer, error) {
	return s.offerRepo.ListByPartner(ctx, partnerID)
}

func (s *orderService) GetOffersForUser(ctx context.Context, userID int32) ([]domain.Offer, error) {
	return s.offerRepo.ListByRenter(ctx, userID)
}
