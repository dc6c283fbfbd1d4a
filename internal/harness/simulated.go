package harness

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// ErrSimulatedFailure is returned by SimulatedExecutor on scheduled failures
var ErrSimulatedFailure = errors.New("simulated operation failure")

// SimulatedExecutor stands in for a real submission path: every call waits
// Latency and every FailEvery-th call fails. It exercises the statistics
// reduction only and says nothing about a real venue.
type SimulatedExecutor[T any] struct {
	Latency   time.Duration
	FailEvery int

	calls atomic.Int64
}

func (e *SimulatedExecutor[T]) Execute(ctx context.Context, _ T) error {
	n := e.calls.Add(1)
	if e.Latency > 0 {
		timer := time.NewTimer(e.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if e.FailEvery > 0 && n%int64(e.FailEvery) == 0 {
		return fmt.Errorf("%w: call %d", ErrSimulatedFailure, n)
	}
	return nil
}

// Calls returns the number of Execute calls so far
func (e *SimulatedExecutor[T]) Calls() int64 {
	return e.calls.Load()
}
