package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/campushub/campushub-api/pkg/circuitbreaker"
	"github.com/campushub/campushub-api/pkg/httpclient"
	"github.com/campushub/campushub-api/pkg/logger"
	"github.com/campushub/campushub-api/pkg/retry"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Shared breaker for all trigger URLs. The downstream notification service is
// one deployment, so one breaker covers it.
var triggerBreaker = circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("event-triggers"))

// CallAsync calls a trigger URL asynchronously with the record id appended.
// Notification webhooks (request created, request finished) hang off these.
// Failures are retried, then logged and dropped; they never block the
// operation that fired the trigger.
func CallAsync(triggerURL, recordID string, httpClient httpclient.Client) {
	if triggerURL == "" {
		// No trigger URL configured, skip silently
		return
	}

	// Run in goroutine to avoid blocking
	go func() {
		targetURL := fmt.Sprintf("%s%s", triggerURL, recordID)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Calling trigger URL",
			zap.String("url", targetURL),
			zap.String("record_id", recordID))

		err := retry.Do(ctx, retry.WebhookConfig(), "eventTrigger", func() error {
			return callOnce(targetURL, httpClient)
		})
		if err != nil {
			logger.Error("Failed to call trigger URL",
				zap.Error(circuitbreaker.FormatError("event-triggers", err)),
				zap.String("url", targetURL),
				zap.String("record_id", recordID))
			return
		}

		logger.Info("Trigger URL called successfully",
			zap.String("url", targetURL),
			zap.String("record_id", recordID))
	}()
}

func callOnce(targetURL string, httpClient httpclient.Client) error {
	_, err := circuitbreaker.Execute(triggerBreaker, func() (struct{}, error) {
		resp, err := httpClient.Get(targetURL)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return struct{}{}, fmt.Errorf("trigger returned status %d", resp.StatusCode)
		}
		return struct{}{}, nil
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		// The breaker is shedding load; retrying within this call won't help.
		return err
	}
	return err
}
