package jobs

import (
	"context"
	"errors"
	"time"

	"shipmarket-backend/internal/domain"
	"shipmarket-backend/internal/logger"
	"shipmarket-backend/internal/metrics"
)

// ExpireStaleOrders discontinues open orders that have gone without an
// agreement past the configured age. Renters get the discontinuation email
// through the service path.
func (jr *JobRunner) ExpireStaleOrders() {
	jr.runWithRecovery("ExpireStaleOrders", func() {
		ctx := context.Background()
		maxAge := time.Duration(jr.config.Scheduler.StaleOrderMaxAgeHours) * time.Hour
		cutoff := time.Now().Add(-maxAge)

		stale, err := jr.orderRepo.ListOpenOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale orders", "error", err)
			return
		}

		count := 0
		for i := range stale {
			order := &stale[i]
			if _, err := jr.orderSvc.DiscontinueOrder(ctx, order.ID); err != nil {
				// A renter may have resolved the order between the listing
				// and the termination; that is not a failure.
				if errors.Is(err, domain.ErrInvalidStateTransition) || errors.Is(err, domain.ErrNotFound) {
					logger.Debug("Order resolved before expiry", "order_id", order.ID)
					continue
				}
				logger.Error("Failed to discontinue stale order", "order_id", order.ID, "error", err)
				continue
			}
			metrics.StaleOrdersExpired.Inc()
			count++
			logger.Debug("Discontinued stale order",
				"order_id", order.ID,
				"renter_id", order.RenterID,
				"created_at", order.CreatedAt)
		}

		logger.Info("Discontinued stale orders", "count", count, "cutoff", cutoff)
	})
}

// RejectStaleOffers rejects pending offers older than the configured age so
// renters are not shown proposals the partner has likely moved on from.
func (jr *JobRunner) RejectStaleOffers() {
	jr.runWithRecovery("RejectStaleOffers", func() {
		ctx := context.Background()
		maxAge := time.Duration(jr.config.Scheduler.StaleOfferMaxAgeHours) * time.Hour
		cutoff := time.Now().Add(-maxAge)

		stale, err := jr.offerRepo.ListPendingOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale offers", "error", err)
			return
		}

		count := 0
		for i := range stale {
			offer := &stale[i]
			if _, err := jr.orderSvc.RejectOffer(ctx, offer.ID); err != nil {
				if errors.Is(err, domain.ErrInvalidStateTransition) || errors.Is(err, domain.ErrNotFound) {
					logger.Debug("Offer resolved before expiry", "offer_id", offer.ID)
					continue
				}
				logger.Error("Failed to reject stale offer", "offer_id", offer.ID, "error", err)
				continue
			}
			metrics.StaleOffersRejected.Inc()
			count++
			logger.Debug("Rejected stale offer",
				"offer_id", offer.ID,
				"order_id", offer.RentOrderID,
				"partner_id", offer.PartnerID)
		}

		logger.Info("Rejected stale offers", "count", count, "cutoff", cutoff)
	})
}
