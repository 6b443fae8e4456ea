package storage

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when a store's circuit breaker rejects the call.
var ErrCircuitOpen = errors.New("storage circuit breaker is open")

// ExecutorConfig holds configuration for an Executor.
type ExecutorConfig struct {
	// Name identifies the guarded store.
	Name string

	// Timeout bounds each individual attempt.
	// Default: 5 seconds
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts.
	// Default: 2
	MaxRetries uint64

	// InitialInterval is the initial retry backoff interval.
	// Default: 50ms
	InitialInterval time.Duration

	// MaxInterval is the maximum retry backoff interval.
	// Default: 1 second
	MaxInterval time.Duration

	// Expected lists domain errors (not found, conflicts) that are returned
	// as-is. They are never retried and never count against the breaker.
	Expected []error

	// CircuitBreaker is the circuit breaker configuration.
	// If nil, uses DefaultCircuitBreakerConfig.
	CircuitBreaker *CircuitBreakerConfig
}

// DefaultExecutorConfig returns the defaults used for database-backed stores.
func DefaultExecutorConfig(name string, expected ...error) ExecutorConfig {
	cbConfig := DefaultCircuitBreakerConfig(name)
	return ExecutorConfig{
		Name:            name,
		Timeout:         5 * time.Second,
		MaxRetries:      2,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		Expected:        expected,
		CircuitBreaker:  &cbConfig,
	}
}

// Executor runs store calls through a circuit breaker with bounded retries.
type Executor struct {
	circuitBreaker *gobreaker.CircuitBreaker[any]
	config         ExecutorConfig
	registry       *Registry
}

// NewExecutor creates a new Executor.
func NewExecutor(cfg ExecutorConfig) *Executor {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 50 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = time.Second
	}

	cbConfig := DefaultCircuitBreakerConfig(cfg.Name)
	if cfg.CircuitBreaker != nil {
		cbConfig = *cfg.CircuitBreaker
	}

	e := &Executor{config: cfg}
	e.circuitBreaker = newCircuitBreaker(cbConfig, e.isSuccessful)
	return e
}

// Name returns the name of the guarded store.
func (e *Executor) Name() string {
	return e.config.Name
}

// Run executes op with circuit breaker protection and retries.
func (e *Executor) Run(ctx context.Context, op func(ctx context.Context) error) error {
	_, err := Execute(ctx, e, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Execute runs op through e and returns its result. Transient failures are
// retried with exponential backoff; expected errors and context cancellation
// are returned immediately. Returns ErrCircuitOpen without calling op while
// the breaker is open.
func Execute[T any](ctx context.Context, e *Executor, op func(ctx context.Context) (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = e.config.InitialInterval
	bo.MaxInterval = e.config.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, e.config.MaxRetries), ctx)

	var result T
	operation := func() error {
		v, err := e.circuitBreaker.Execute(func() (any, error) {
			attemptCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
			defer cancel()
			return op(attemptCtx)
		})

		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return backoff.Permanent(ErrCircuitOpen)
		case err != nil && !e.retryable(ctx, err):
			return backoff.Permanent(err)
		case err != nil:
			return err
		}

		result, _ = v.(T)
		return nil
	}

	err := backoff.Retry(operation, policy)
	e.record(err)
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// CircuitBreakerState returns the current state of the circuit breaker.
func (e *Executor) CircuitBreakerState() gobreaker.State {
	return e.circuitBreaker.State()
}

// CircuitBreakerCounts returns the current counts of the circuit breaker.
func (e *Executor) CircuitBreakerCounts() gobreaker.Counts {
	return e.circuitBreaker.Counts()
}

func (e *Executor) isSuccessful(err error) bool {
	return err == nil || e.expected(err) || errors.Is(err, context.Canceled)
}

func (e *Executor) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || e.expected(err) {
		return false
	}
	return !errors.Is(err, context.Canceled)
}

func (e *Executor) expected(err error) bool {
	for _, target := range e.config.Expected {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (e *Executor) record(err error) {
	if e.registry == nil {
		return
	}
	if err == nil || e.expected(err) {
		e.registry.RecordSuccess(e.config.Name)
		return
	}
	e.registry.RecordFailure(e.config.Name, err)
}
