package jobs

import (
	"shipmarket-backend/internal/config"
	"shipmarket-backend/internal/logger"
	"shipmarket-backend/internal/repository"
	"shipmarket-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs. Lifecycle mutations go through
// the order service, not raw SQL, so terminations trigger the same
// notifications and typed failures as interactive calls.
type JobRunner struct {
	orderRepo repository.OrderRepository
	offerRepo repository.OfferRepository
	orderSvc  service.OrderService
	config    *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(orderRepo repository.OrderRepository, offerRepo repository.OfferRepository, orderSvc service.OrderService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		orderRepo: orderRepo,
		offerRepo: offerRepo,
		orderSvc:  orderSvc,
		config:    cfg,
	}
}

// Config returns the loaded application configuration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.ExpireStaleOrders()
	jr.RejectStaleOffers()
}
