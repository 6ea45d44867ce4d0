package gopay

import (
	"context"
	"errors"
	"sync"
	"time"
)

// CircuitBreakerState represents the current state of the circuit breaker.
type CircuitBreakerState string

const (
	StateClosed   CircuitBreakerState = "closed"
	StateOpen     CircuitBreakerState = "open"
	StateHalfOpen CircuitBreakerState = "half_open"
)

// CircuitBreakerConfig holds circuit breaker configuration
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive server or network failures
	// before opening the circuit (default: 5)
	FailureThreshold int

	// ResetTimeout is the duration to wait before transitioning from Open to Half-Open (default: 30 seconds)
	ResetTimeout time.Duration
}

// CircuitBreaker defines the interface for a circuit breaker.
type CircuitBreaker interface {
	// Execute executes the given function within the circuit breaker.
	Execute(ctx context.Context, fn func() error) error
	// Success records a successful execution.
	Success()
	// Failure records a failed execution.
	Failure(err error)
	// State returns the current state of the circuit breaker.
	State() CircuitBreakerState
}

// DefaultCircuitBreaker counts consecutive failures and fails fast once the
// threshold is reached. After resetTimeout a single trial call is let through
// while every other call keeps failing fast; its outcome closes or reopens
// the circuit. Each state change is reported once.
type DefaultCircuitBreaker struct {
	mu sync.Mutex

	state               CircuitBreakerState
	failureThreshold    int
	resetTimeout        time.Duration
	consecutiveFailures int
	openedAt            time.Time
	trialInFlight       bool

	onStateChange func(state CircuitBreakerState)
}

// NewDefaultCircuitBreaker creates a new default circuit breaker.
func NewDefaultCircuitBreaker(config CircuitBreakerConfig,
	onStateChange func(state CircuitBreakerState)) *DefaultCircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	return &DefaultCircuitBreaker{
		state:            StateClosed,
		failureThreshold: config.FailureThreshold,
		resetTimeout:     config.ResetTimeout,
		onStateChange:    onStateChange,
	}
}

// State reports half-open as soon as the reset timeout has elapsed, even
// before the trial call is admitted.
func (cb *DefaultCircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.resetTimeout {
		return StateHalfOpen
	}
	return cb.state
}

// Execute runs fn unless the circuit is open. When fn fails after ctx was
// canceled or timed out, the failure belongs to the caller and is not counted.
func (cb *DefaultCircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cb.admit(); err != nil {
		return err
	}

	if err := fn(); err != nil {
		if ctx.Err() != nil {
			cb.release()
			return err
		}
		cb.Failure(err)
		return err
	}

	cb.Success()
	return nil
}

// admit lets a call through when closed, or as the one trial call once the
// reset timeout has elapsed.
func (cb *DefaultCircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil
	case StateOpen:
		if time.Since(cb.openedAt) < cb.resetTimeout {
			return ErrCircuitOpen
		}
		cb.changeState(StateHalfOpen)
	}
	if cb.trialInFlight {
		return ErrCircuitOpen
	}
	cb.trialInFlight = true
	return nil
}

// release ends a trial call without deciding the circuit's state.
func (cb *DefaultCircuitBreaker) release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.trialInFlight = false
}

func (cb *DefaultCircuitBreaker) Success() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.trialInFlight = false
	cb.consecutiveFailures = 0
	cb.changeState(StateClosed)
}

func (cb *DefaultCircuitBreaker) Failure(_ error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.trialInFlight = false
	cb.consecutiveFailures++
	switch cb.state {
	case StateClosed:
		if cb.consecutiveFailures >= cb.failureThreshold {
			cb.open()
		}
	case StateHalfOpen:
		// the trial call failed
		cb.open()
	}
}

func (cb *DefaultCircuitBreaker) open() {
	cb.openedAt = time.Now()
	cb.changeState(StateOpen)
}

func (cb *DefaultCircuitBreaker) changeState(newState CircuitBreakerState) {
	if cb.state != newState {
		cb.state = newState
		if cb.onStateChange != nil {
			cb.onStateChange(newState)
		}
	}
}

// CircuitBreakerBackend wraps a Backend with circuit breaker protection.
// Only network failures and 5xx responses count against the breaker; a 4xx
// response proves the API is reachable and is returned to the caller as is.
// A call cut short by the caller's own context counts for neither side.
type CircuitBreakerBackend struct {
	backend Backend
	cb      CircuitBreaker
}

// NewCircuitBreakerBackend creates a new backend wrapper with circuit breaker.
func NewCircuitBreakerBackend(backend Backend, cb CircuitBreaker) *CircuitBreakerBackend {
	return &CircuitBreakerBackend{
		backend: backend,
		cb:      cb,
	}
}

func (b *CircuitBreakerBackend) Call(ctx context.Context, req *Request, v any) error {
	var clientErr error
	err := b.cb.Execute(ctx, func() error {
		err := b.backend.Call(ctx, req, v)
		if err != nil && !isServerFailure(err) {
			clientErr = err
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	return clientErr
}

func isServerFailure(err error) bool {
	if errors.Is(err, ErrNetwork) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return false
}
