// Package sweeper runs the periodic expiry sweep inside the API process.
// The sweep itself is one idempotent UPDATE, so running it here and from the
// internal endpoint at the same time is safe.
package sweeper

import (
	"context"
	"time"

	"github.com/campushub/campushub-api/internal/services"
	"github.com/campushub/campushub-api/pkg/logger"
	"github.com/campushub/campushub-api/pkg/retry"
	"go.uber.org/zap"
)

// Sweeper periodically expires overdue pending mentoring requests
type Sweeper struct {
	service  services.ExpiryServiceInterface
	interval time.Duration
}

// New creates a sweeper running at the given interval
func New(service services.ExpiryServiceInterface, interval time.Duration) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: interval,
	}
}

// Run sweeps at the configured interval until the context is cancelled. One
// sweep runs immediately at startup so a restart does not delay expiry by a
// full interval.
func (s *Sweeper) Run(ctx context.Context) {
	logger.Info("Expiry sweeper started", zap.Duration("interval", s.interval))

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Expiry sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs one sweep with retries for transient database failures. A sweep
// that still fails is dropped; the next tick covers its work.
func (s *Sweeper) sweep(ctx context.Context) {
	err := retry.Do(ctx, retry.DatabaseConfig(), "expirySweep", func() error {
		_, err := s.service.Sweep(ctx, time.Now().UTC())
		return err
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("Expiry sweep run failed", zap.Error(err))
	}
}
