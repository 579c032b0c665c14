package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/pkg/logger"
	"github.com/campushub/campushub-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// AvailabilitySource is the read side the cache wraps on a miss
type AvailabilitySource interface {
	ListByTutor(ctx context.Context, tutorID int64, activeOnly bool) ([]*models.TutorAvailability, error)
}

const (
	tutorKeyPrefix   = "availability:tutor:"
	cacheCheckPeriod = 10 * time.Second
)

// AvailabilityCache is a read-through cache for tutors' published weekly
// slots. Availability is the hot read path (every booking page loads it),
// changes rarely, and staleness only delays a slot appearing, so a short
// TTL plus write invalidation is enough.
type AvailabilityCache struct {
	cache  *gocache.Cache
	source AvailabilitySource
	ttl    time.Duration
}

// NewAvailabilityCache creates an availability cache with the given TTL
func NewAvailabilityCache(source AvailabilitySource, ttlSeconds int) *AvailabilityCache {
	ttl := time.Duration(ttlSeconds) * time.Second

	return &AvailabilityCache{
		cache:  gocache.New(ttl, cacheCheckPeriod),
		source: source,
		ttl:    ttl,
	}
}

// ListByTutor returns a tutor's active slots, hitting the database only on a
// cache miss
func (ac *AvailabilityCache) ListByTutor(ctx context.Context, tutorID int64) ([]*models.TutorAvailability, error) {
	key := fmt.Sprintf("%s%d", tutorKeyPrefix, tutorID)

	if data, found := ac.cache.Get(key); found {
		if slots, ok := data.([]*models.TutorAvailability); ok {
			metrics.CacheHits.WithLabelValues("tutor_availability").Inc()
			return slots, nil
		}
		ac.cache.Delete(key)
	}

	metrics.CacheMisses.WithLabelValues("tutor_availability").Inc()

	slots, err := ac.source.ListByTutor(ctx, tutorID, true)
	if err != nil {
		return nil, err
	}

	ac.cache.Set(key, slots, ac.ttl)
	logger.Debug("Availability cache populated",
		zap.Int64("tutor_id", tutorID),
		zap.Int("slots", len(slots)))

	return slots, nil
}

// Invalidate drops a tutor's cached slots. Called after any slot write so
// the next read sees the change.
func (ac *AvailabilityCache) Invalidate(tutorID int64) {
	ac.cache.Delete(fmt.Sprintf("%s%d", tutorKeyPrefix, tutorID))
}

// Clear clears the entire cache
func (ac *AvailabilityCache) Clear() {
	ac.cache.Flush()
	logger.Info("Availability cache cleared")
}
