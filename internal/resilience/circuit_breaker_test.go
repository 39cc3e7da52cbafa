package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBreaker() *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		RecoveryTimeout:  20 * time.Millisecond,
		SuccessThreshold: 2,
	})
}

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	cb := testBreaker()

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Call(func() error { return nil }))
	}
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	cb := testBreaker()

	for i := 0; i < 3; i++ {
		cb.Call(func() error { return assert.AnError })
	}
	assert.Equal(t, StateOpen, cb.State())

	// While open, calls fail fast without running fn.
	ran := false
	err := cb.Call(func() error { ran = true; return nil })
	assert.False(t, ran)
	var openErr *CircuitOpenError
	assert.ErrorAs(t, err, &openErr)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := testBreaker()

	for i := 0; i < 3; i++ {
		cb.Call(func() error { return assert.AnError })
	}
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(30 * time.Millisecond)

	// First probe succeeds: half-open, not yet closed.
	require.NoError(t, cb.Call(func() error { return nil }))
	assert.Equal(t, StateHalfOpen, cb.State())

	// Second success reaches the threshold and closes the breaker.
	require.NoError(t, cb.Call(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := testBreaker()

	for i := 0; i < 3; i++ {
		cb.Call(func() error { return assert.AnError })
	}
	time.Sleep(30 * time.Millisecond)

	cb.Call(func() error { return assert.AnError })
	assert.Equal(t, StateOpen, cb.State())
}

func TestBreakerReset(t *testing.T) {
	cb := testBreaker()

	for i := 0; i < 3; i++ {
		cb.Call(func() error { return assert.AnError })
	}
	require.Equal(t, StateOpen, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	require.NoError(t, cb.Call(func() error { return nil }))
}

func TestBreakerFailureCountResetsOnSuccess(t *testing.T) {
	cb := testBreaker()

	// Two failures, then a success, then two more failures: never reaches
	// three consecutive.
	cb.Call(func() error { return assert.AnError })
	cb.Call(func() error { return assert.AnError })
	cb.Call(func() error { return nil })
	cb.Call(func() error { return assert.AnError })
	cb.Call(func() error { return assert.AnError })

	assert.Equal(t, StateClosed, cb.State())
}
