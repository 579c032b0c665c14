package cache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/campushub/campushub-api/internal/cache"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// countingSource records how often the underlying store is hit
type countingSource struct {
	calls int
	slots []*models.TutorAvailability
	err   error
}

func (s *countingSource) ListByTutor(ctx context.Context, tutorID int64, activeOnly bool) ([]*models.TutorAvailability, error) {
	s.calls++
	return s.slots, s.err
}

func twoSlots() []*models.TutorAvailability {
	return []*models.TutorAvailability{
		{ID: 1, TutorID: 7, DayOfWeek: 1, StartTime: 540, EndTime: 720, Recurring: true, Active: true},
		{ID: 2, TutorID: 7, DayOfWeek: 3, StartTime: 840, EndTime: 960, Recurring: true, Active: true},
	}
}

func TestListByTutor_SecondReadServedFromCache(t *testing.T) {
	source := &countingSource{slots: twoSlots()}
	ac := cache.NewAvailabilityCache(source, 300)

	first, err := ac.ListByTutor(context.Background(), 7)
	require.NoError(t, err)
	second, err := ac.ListByTutor(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, second, 2)
	assert.Equal(t, 1, source.calls)
}

func TestListByTutor_MissesAreNotCached(t *testing.T) {
	source := &countingSource{err: errors.New("connection refused")}
	ac := cache.NewAvailabilityCache(source, 300)

	_, err := ac.ListByTutor(context.Background(), 7)
	assert.Error(t, err)

	source.err = nil
	source.slots = twoSlots()

	slots, err := ac.ListByTutor(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
	assert.Equal(t, 2, source.calls)
}

func TestInvalidate_ForcesReload(t *testing.T) {
	source := &countingSource{slots: twoSlots()}
	ac := cache.NewAvailabilityCache(source, 300)

	_, err := ac.ListByTutor(context.Background(), 7)
	require.NoError(t, err)

	ac.Invalidate(7)

	_, err = ac.ListByTutor(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestInvalidate_LeavesOtherTutorsCached(t *testing.T) {
	source := &countingSource{slots: twoSlots()}
	ac := cache.NewAvailabilityCache(source, 300)

	_, err := ac.ListByTutor(context.Background(), 7)
	require.NoError(t, err)
	_, err = ac.ListByTutor(context.Background(), 8)
	require.NoError(t, err)

	ac.Invalidate(8)

	_, err = ac.ListByTutor(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}
