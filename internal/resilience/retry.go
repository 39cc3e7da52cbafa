package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/ZanzyTHEbar/aeo-meter/internal/errors"
)

// RetryConfig controls backoff behavior for collaborator calls.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	Jitter        bool
	Retryable     func(error) bool
}

// DefaultRetryConfig returns the policy used for visibility API calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
		Retryable:     errors.IsRetryable,
	}
}

// Retry executes fn with exponential backoff, honoring context cancellation.
func Retry(ctx context.Context, config RetryConfig, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !config.Retryable(err) || attempt == config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoffDelay(config, attempt)):
		}
	}

	return lastErr
}

func backoffDelay(config RetryConfig, attempt int) time.Duration {
	delay := time.Duration(float64(config.InitialDelay) * math.Pow(config.BackoffFactor, float64(attempt)))
	if delay > config.MaxDelay {
		delay = config.MaxDelay
	}
	if config.Jitter && delay > 10 {
		delay += time.Duration(rand.Int63n(int64(delay / 10)))
	}
	return delay
}
