package services

import (
	"context"
	"time"

	"github.com/campushub/campushub-api/internal/repository"
	"github.com/campushub/campushub-api/pkg/logger"
	"github.com/campushub/campushub-api/pkg/metrics"
	"go.uber.org/zap"
)

// ExpiryService runs the expiry sweep over pending mentoring requests. The
// sweep is a single UPDATE, so concurrent runs are safe: whatever one run
// expires the next one skips.
type ExpiryService struct {
	requestRepo repository.MentoringRequestDataSource
}

// NewExpiryService creates a new ExpiryService
func NewExpiryService(requestRepo repository.MentoringRequestDataSource) *ExpiryService {
	return &ExpiryService{requestRepo: requestRepo}
}

// Sweep expires every pending request whose expiry is behind now and
// returns how many were moved
func (s *ExpiryService) Sweep(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()

	expired, err := s.requestRepo.ExpirePending(ctx, now)

	duration := metrics.MeasureDuration(start)
	metrics.ExpirySweepDuration.Observe(duration)

	if err != nil {
		metrics.ExpirySweepsTotal.WithLabelValues("error").Inc()
		logger.Error("Expiry sweep failed", zap.Error(err))
		return 0, err
	}

	metrics.ExpirySweepsTotal.WithLabelValues("success").Inc()
	metrics.ExpiredRequestsTotal.Add(float64(expired))

	if expired > 0 {
		logger.Info("Expiry sweep completed",
			zap.Int64("expired", expired),
			zap.Time("cutoff", now))
	} else {
		logger.Debug("Expiry sweep completed, nothing to expire", zap.Time("cutoff", now))
	}

	return expired, nil
}
