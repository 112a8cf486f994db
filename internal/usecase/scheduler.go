package usecase

import (
	"context"
	"log/slog"
	"time"

	"UniRecommender/internal/logging"
	"UniRecommender/internal/ports"
)

// RefreshScheduler re-seeds the catalog on every tick of the driver.
type RefreshScheduler struct {
	driver ports.Scheduler
	seeder *Seeder
	logger *slog.Logger
}

// NewRefreshScheduler returns a helper to start/stop recurring catalog refreshes.
func NewRefreshScheduler(driver ports.Scheduler, seeder *Seeder, logger *slog.Logger) *RefreshScheduler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &RefreshScheduler{driver: driver, seeder: seeder, logger: logger}
}

// Start registers the seeder with the provided scheduler. Failed refreshes are
// logged and retried on the next tick.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.seeder == nil {
		return nil
	}

	job := func(trigger time.Time) {
		n, err := s.seeder.Seed(ctx)
		if err != nil {
			s.logger.Error("catalog refresh failed", "trigger", trigger, "error", err)
			return
		}
		s.logger.Info("catalog refreshed", "trigger", trigger, "records", n)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *RefreshScheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
