package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StatusAdvancer moves due tenders to their next status and reports how many moved.
type StatusAdvancer interface {
	AdvanceToIdeation(ctx context.Context) (int, error)
}

// StatusScheduler runs a StatusAdvancer at a fixed interval.
type StatusScheduler struct {
	advancer StatusAdvancer
	interval time.Duration
	logger   *zap.Logger
}

// NewStatusScheduler creates a scheduler. A non-positive interval defaults to one hour.
func NewStatusScheduler(advancer StatusAdvancer, interval time.Duration, logger *zap.Logger) *StatusScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusScheduler{advancer: advancer, interval: interval, logger: logger}
}

// Tick runs one pass. Errors are logged; the next tick retries.
func (s *StatusScheduler) Tick(ctx context.Context) {
	moved, err := s.advancer.AdvanceToIdeation(ctx)
	if err != nil {
		s.logger.Error("tender status run failed", zap.Int("moved", moved), zap.Error(err))
		return
	}
	if moved > 0 {
		s.logger.Info("tenders moved to ideation", zap.Int("count", moved))
	}
}

// Run ticks once immediately, then every interval until ctx is done.
func (s *StatusScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("status scheduler stopping")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}
