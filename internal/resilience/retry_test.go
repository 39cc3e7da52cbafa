package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		Retryable:     func(error) bool { return true },
	}
}

func TestRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(3), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryEventualSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(5), func() error {
		calls++
		if calls < 3 {
			return assert.AnError
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(3), func() error {
		calls++
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	config := fastRetryConfig(5)
	config.Retryable = func(error) bool { return false }

	calls := 0
	err := Retry(context.Background(), config, func() error {
		calls++
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, fastRetryConfig(3), func() error {
		return assert.AnError
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoffDelayGrowsAndCaps(t *testing.T) {
	config := RetryConfig{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      300 * time.Millisecond,
		BackoffFactor: 2.0,
	}

	assert.Equal(t, 100*time.Millisecond, backoffDelay(config, 0))
	assert.Equal(t, 200*time.Millisecond, backoffDelay(config, 1))
	assert.Equal(t, 300*time.Millisecond, backoffDelay(config, 2))
	assert.Equal(t, 300*time.Millisecond, backoffDelay(config, 5))
}
