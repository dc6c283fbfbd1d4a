// =============================
// Executor decorators: timeout and circuit breaking
// =============================

package harness

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrOperationTimeout = errors.New("operation timed out")
	ErrCircuitOpen      = errors.New("circuit breaker is open")
)

// WithTimeout bounds every operation by d. An operation still running when
// d elapses is reported as ErrOperationTimeout; its executor keeps the
// cancelled context and must return on its own.
func WithTimeout[T any](exec Executor[T], d time.Duration) Executor[T] {
	if d <= 0 {
		return exec
	}
	return ExecutorFunc[T](func(ctx context.Context, op T) error {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			defer func() {
				if p := recover(); p != nil {
					done <- fmt.Errorf("%w: %v", ErrExecutorPanic, p)
				}
			}()
			done <- exec.Execute(ctx, op)
		}()

		var err error
		select {
		case err = <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrOperationTimeout, d)
		}
		return err
	})
}

// WithRecover turns a panic inside exec into an ErrExecutorPanic failure
func WithRecover[T any](exec Executor[T]) Executor[T] {
	return ExecutorFunc[T](func(ctx context.Context, op T) (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%w: %v", ErrExecutorPanic, p)
			}
		}()
		return exec.Execute(ctx, op)
	})
}

// --- Circuit Breaker ---
const (
	StateClosed   = 0
	StateOpen     = 1
	StateHalfOpen = 2
)

// CircuitBreaker fails operations fast after threshold consecutive failures,
// until cooldown has passed. Once half-open a single trial call is let
// through; concurrent callers get ErrCircuitOpen until it completes. It never
// retries.
type CircuitBreaker struct {
	mu            sync.Mutex
	state         int
	failures      int
	openedAt      time.Time
	inFlightTrial bool
	threshold     int
	cooldown      time.Duration
	clock         Clock
}

// NewCircuitBreaker returns a closed breaker. A nil clock means the wall clock.
func NewCircuitBreaker(threshold int, cooldown time.Duration, clock Clock) *CircuitBreaker {
	if clock == nil {
		clock = systemClock{}
	}
	return &CircuitBreaker{
		threshold: threshold,
		cooldown:  cooldown,
		clock:     clock,
	}
}

// Call runs fn unless the breaker is open
func (cb *CircuitBreaker) Call(fn func() error) error {
	ok, trial := cb.allow()
	if !ok {
		return ErrCircuitOpen
	}
	err := fn()
	if err != nil {
		cb.recordFailure(trial)
	} else {
		cb.recordSuccess(trial)
	}
	return err
}

// State returns StateClosed, StateOpen or StateHalfOpen
func (cb *CircuitBreaker) State() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// allow reports whether a call may proceed and whether it is the half-open trial
func (cb *CircuitBreaker) allow() (ok, trial bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch cb.state {
	case StateClosed:
		return true, false
	case StateOpen:
		if cb.clock.Now().Sub(cb.openedAt) < cb.cooldown {
			return false, false
		}
		cb.state = StateHalfOpen
	}
	if cb.inFlightTrial {
		return false, false
	}
	cb.inFlightTrial = true
	return true, true
}

// Outcomes of calls admitted while closed only count while still closed.
func (cb *CircuitBreaker) recordFailure(trial bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if trial {
		cb.inFlightTrial = false
		cb.open()
		return
	}
	if cb.state != StateClosed {
		return
	}
	cb.failures++
	if cb.failures >= cb.threshold {
		cb.open()
	}
}

func (cb *CircuitBreaker) recordSuccess(trial bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if trial {
		cb.inFlightTrial = false
		cb.state = StateClosed
	}
	if cb.state == StateClosed {
		cb.failures = 0
	}
}

func (cb *CircuitBreaker) open() {
	cb.state = StateOpen
	cb.openedAt = cb.clock.Now()
}

// WithBreaker routes every operation through cb. A nil breaker or a
// non-positive threshold leaves exec untouched.
func WithBreaker[T any](exec Executor[T], cb *CircuitBreaker) Executor[T] {
	if cb == nil || cb.threshold <= 0 {
		return exec
	}
	return ExecutorFunc[T](func(ctx context.Context, op T) error {
		return cb.Call(func() error { return exec.Execute(ctx, op) })
	})
}
