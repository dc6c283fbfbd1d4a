// Package harness executes a sequence of operations against an executor,
// records per-operation latency and reduces the samples to throughput and
// nearest-rank percentile statistics.
//
// Operation failures never abort a run; they are counted and excluded from the
// latency percentiles.
package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrExecutorPanic marks an operation whose executor panicked
var ErrExecutorPanic = errors.New("executor panic recovered")

// Executor submits one operation. A nil error means success.
type Executor[T any] interface {
	Execute(ctx context.Context, op T) error
}

// ExecutorFunc adapts a function to Executor
type ExecutorFunc[T any] func(ctx context.Context, op T) error

func (f ExecutorFunc[T]) Execute(ctx context.Context, op T) error {
	return f(ctx, op)
}

// Clock supplies wall-clock readings for latency measurement
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock
func SystemClock() Clock { return systemClock{} }

type settings struct {
	clock       Clock
	observer    func(Sample)
	concurrency int
}

// Option configures a Runner
type Option func(*settings)

// WithClock replaces the wall clock used for timing
func WithClock(c Clock) Option {
	return func(s *settings) { s.clock = c }
}

// WithObserver registers a callback invoked after every operation. Under
// RunConcurrent it is called from several goroutines.
func WithObserver(fn func(Sample)) Option {
	return func(s *settings) { s.observer = fn }
}

// WithConcurrency bounds the number of in-flight operations of RunConcurrent
func WithConcurrency(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// Runner drives operations of type T through an Executor
type Runner[T any] struct {
	exec   Executor[T]
	logger *zap.Logger
	settings
}

// NewRunner creates a runner around exec
func NewRunner[T any](logger *zap.Logger, exec Executor[T], opts ...Option) *Runner[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner[T]{
		exec:   exec,
		logger: logger.Named("harness"),
		settings: settings{
			clock:       systemClock{},
			concurrency: 1,
		},
	}
	for _, opt := range opts {
		opt(&r.settings)
	}
	return r
}

// Run executes ops strictly in order. Once ctx is done the remaining
// operations are not dispatched and count as failures.
func (r *Runner[T]) Run(ctx context.Context, ops []T) Summary {
	runID := uuid.New()
	samples := make([]Sample, 0, len(ops))

	start := r.clock.Now()
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			samples = append(samples, Sample{Index: i, Err: err})
			continue
		}
		samples = append(samples, r.execute(ctx, i, op))
	}
	elapsed := r.clock.Now().Sub(start)

	return r.finish(runID, "sequential", samples, elapsed)
}

// RunConcurrent dispatches ops to at most the configured number of workers.
// The wall clock wraps the whole run, from the first dispatch to the last
// completion.
func (r *Runner[T]) RunConcurrent(ctx context.Context, ops []T) Summary {
	runID := uuid.New()
	samples := make([]Sample, len(ops))

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	start := r.clock.Now()
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			samples[i] = Sample{Index: i, Err: err}
			continue
		}
		g.Go(func() error {
			samples[i] = r.execute(ctx, i, op)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors
	elapsed := r.clock.Now().Sub(start)

	return r.finish(runID, "concurrent", samples, elapsed)
}

func (r *Runner[T]) execute(ctx context.Context, i int, op T) (s Sample) {
	s.Index = i
	begin := r.clock.Now()
	defer func() {
		if p := recover(); p != nil {
			s.Err = fmt.Errorf("%w: %v", ErrExecutorPanic, p)
			r.logger.Error("Executor panic recovered", zap.Int("index", i), zap.Any("panic", p))
		}
		s.Latency = max(r.clock.Now().Sub(begin), 0)
		if s.Err != nil {
			r.logger.Debug("Operation failed", zap.Int("index", i), zap.Error(s.Err))
		}
		if r.observer != nil {
			r.observer(s)
		}
	}()
	s.Err = r.exec.Execute(ctx, op)
	return s
}

func (r *Runner[T]) finish(runID uuid.UUID, mode string, samples []Sample, elapsed time.Duration) Summary {
	sum := Summarize(runID, samples, elapsed)
	r.logger.Info("Harness run completed",
		zap.String("run_id", runID.String()),
		zap.String("mode", mode),
		zap.Int("total", sum.Total),
		zap.Int("successful", sum.Successful),
		zap.Int("failed", sum.Failed),
		zap.Duration("elapsed", sum.Elapsed),
		zap.Float64("throughput", sum.Throughput),
		zap.Duration("p99", sum.P99))
	return sum
}
