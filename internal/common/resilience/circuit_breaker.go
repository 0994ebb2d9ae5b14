package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/AlibekovAA/user-api/internal/common/clock"
	commonerrors "github.com/AlibekovAA/user-api/internal/common/errors"
	"github.com/AlibekovAA/user-api/internal/common/logger"
	"github.com/AlibekovAA/user-api/internal/observability/metrics"
)

type CircuitBreaker struct {
	failures    atomic.Int32
	lastFailure atomic.Value
	threshold   int32
	timeout     time.Duration
	resetAfter  time.Duration
	name        string
	ignore      func(error) bool
	clock       clock.Clock
	log         *logger.Logger
}

type CircuitBreakerConfig struct {
	Threshold  int32
	Timeout    time.Duration
	ResetAfter time.Duration
	Name       string
	// Ignore reports errors that are expected outcomes (a missing row, say) and
	// must not count towards opening the circuit.
	Ignore func(error) bool
	Clock  clock.Clock
	Logger *logger.Logger
}

func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	c := config.Clock
	if c == nil {
		c = clock.NewRealClock()
	}
	cb := &CircuitBreaker{
		threshold:  config.Threshold,
		timeout:    config.Timeout,
		resetAfter: config.ResetAfter,
		name:       config.Name,
		ignore:     config.Ignore,
		clock:      c,
		log:        config.Logger,
	}
	cb.lastFailure.Store(time.Time{})
	return cb
}

func (cb *CircuitBreaker) IsOpen() bool {
	if cb.threshold <= 0 || cb.failures.Load() < cb.threshold {
		cb.setState(0)
		return false
	}

	lastFailure := cb.lastFailure.Load().(time.Time)
	if lastFailure.IsZero() {
		cb.setState(0)
		return false
	}

	if cb.clock.Since(lastFailure) > cb.resetAfter {
		cb.reset()
		cb.setState(0)
		return false
	}

	cb.setState(1)
	return true
}

func (cb *CircuitBreaker) setState(state float64) {
	if cb.name != "" {
		metrics.CircuitBreakerState.WithLabelValues(cb.name).Set(state)
	}
}

func (cb *CircuitBreaker) recordFailure() {
	cb.failures.Add(1)
	cb.lastFailure.Store(cb.clock.Now())
	if cb.name != "" {
		metrics.CircuitBreakerFailures.WithLabelValues(cb.name).Inc()
	}
	if cb.log != nil {
		cb.log.Warnf("circuit breaker [%s]: failure recorded", cb.name)
	}
}

func (cb *CircuitBreaker) reset() {
	cb.failures.Store(0)
	cb.lastFailure.Store(time.Time{})
}

func (cb *CircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	if cb.IsOpen() {
		if cb.log != nil {
			cb.log.Warnf("circuit breaker [%s]: circuit is open, rejecting request", cb.name)
		}
		return commonerrors.ErrCircuitOpen
	}

	callCtx := ctx
	if cb.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cb.timeout)
		defer cancel()
	}

	err := fn(callCtx)
	if err != nil {
		if !cb.callerCanceled(ctx) && (cb.ignore == nil || !cb.ignore(err)) {
			cb.recordFailure()
		}
		return err
	}

	cb.reset()
	return nil
}

// callerCanceled reports a caller that gave up on its own. The breaker's timeout
// and caller deadlines still count, since both point at a slow dependency.
func (cb *CircuitBreaker) callerCanceled(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.Canceled)
}
