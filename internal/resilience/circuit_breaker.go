package resilience

import (
	"sync"
	"time"
)

// CircuitBreakerState is the breaker's current mode.
type CircuitBreakerState int32

const (
	StateClosed CircuitBreakerState = iota
	StateOpen
	StateHalfOpen
)

// CircuitBreakerConfig tunes when the breaker opens and recovers.
type CircuitBreakerConfig struct {
	FailureThreshold int
	RecoveryTimeout  time.Duration
	SuccessThreshold int
}

// CircuitBreaker guards an external collaborator: after FailureThreshold
// consecutive failures it fails fast until RecoveryTimeout elapses, then
// probes in half-open mode.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu          sync.Mutex
	state       CircuitBreakerState
	failures    int
	successes   int
	nextAttempt time.Time
}

func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryTimeout == 0 {
		config.RecoveryTimeout = 30 * time.Second
	}
	if config.SuccessThreshold == 0 {
		config.SuccessThreshold = 3
	}
	return &CircuitBreaker{config: config, state: StateClosed}
}

// Call runs fn under breaker protection.
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == StateOpen {
		if time.Now().Before(cb.nextAttempt) {
			cb.mu.Unlock()
			return &CircuitOpenError{}
		}
		cb.state = StateHalfOpen
		cb.successes = 0
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		cb.successes = 0
		if cb.failures >= cb.config.FailureThreshold || cb.state == StateHalfOpen {
			cb.state = StateOpen
			cb.nextAttempt = time.Now().Add(cb.config.RecoveryTimeout)
		}
		return err
	}

	cb.failures = 0
	if cb.state == StateHalfOpen {
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.state = StateClosed
		}
	}
	return nil
}

// State returns the breaker's current state.
func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset forces the breaker closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0
}

// CircuitOpenError is returned while the breaker is failing fast.
type CircuitOpenError struct{}

func (e *CircuitOpenError) Error() string {
	return "circuit breaker is open"
}
