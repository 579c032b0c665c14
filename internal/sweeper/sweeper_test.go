package sweeper_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/campushub/campushub-api/internal/sweeper"
	"github.com/campushub/campushub-api/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func init() {
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// countingExpiryService counts sweep invocations
type countingExpiryService struct {
	calls atomic.Int64
}

func (s *countingExpiryService) Sweep(ctx context.Context, now time.Time) (int64, error) {
	s.calls.Add(1)
	return 0, nil
}

func TestRun_SweepsImmediatelyAndOnTick(t *testing.T) {
	svc := &countingExpiryService{}
	sw := sweeper.New(svc, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()

	sw.Run(ctx)

	// One immediate sweep plus at least two ticks
	assert.GreaterOrEqual(t, svc.calls.Load(), int64(3))
}

func TestRun_StopsOnCancel(t *testing.T) {
	svc := &countingExpiryService{}
	sw := sweeper.New(svc, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}

	// No tick ever fired with an hour-long interval
	assert.LessOrEqual(t, svc.calls.Load(), int64(1))
}
