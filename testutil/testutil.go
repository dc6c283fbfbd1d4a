package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/Aidin1998/execbench/pkg/models"
)

// Fixed generation parameters used by Batch, in smallest units
// (6 quote decimals, 18 base decimals).
const (
	BasePrice = 3000_000000
	PriceStep = 10_000000
	Amount    = 100_000000_000000_000 // 0.1 of the base asset
)

// Batch returns n orders spread round-robin over levels price levels.
// Order i sits on level i%levels and buys when i is even.
func Batch(n, levels int) []models.Order {
	if levels <= 0 {
		levels = 1
	}
	batch := make([]models.Order, 0, n)
	for i := 0; i < n; i++ {
		level := int64(i % levels)
		side := models.Sell
		if i%2 == 0 {
			side = models.Buy
		}
		batch = append(batch, models.Order{
			ID:         int64(i),
			Price:      BasePrice + level*PriceStep,
			Amount:     Amount,
			Side:       side,
			PriceLevel: level,
		})
	}
	return batch
}

// ManualClock is a clock that only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock starts the clock at a fixed instant
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Step scripts one call of a ScriptedExecutor.
type Step struct {
	Latency time.Duration
	Err     error
	Panic   bool
	Block   bool // wait for ctx to be done, then return its error
}

// ScriptedExecutor replays Steps in call order, advancing Clock by each
// step's latency. Steps wrap around when exhausted.
type ScriptedExecutor[T any] struct {
	Clock *ManualClock
	Steps []Step

	mu    sync.Mutex
	calls []T
}

// NewScriptedExecutor builds an executor that succeeds with the given latencies
func NewScriptedExecutor[T any](clock *ManualClock, latencies ...time.Duration) *ScriptedExecutor[T] {
	steps := make([]Step, 0, len(latencies))
	for _, l := range latencies {
		steps = append(steps, Step{Latency: l})
	}
	return &ScriptedExecutor[T]{Clock: clock, Steps: steps}
}

func (e *ScriptedExecutor[T]) Execute(ctx context.Context, op T) error {
	e.mu.Lock()
	idx := len(e.calls)
	e.calls = append(e.calls, op)
	e.mu.Unlock()

	if len(e.Steps) == 0 {
		return nil
	}
	step := e.Steps[idx%len(e.Steps)]
	if e.Clock != nil {
		e.Clock.Advance(step.Latency)
	}
	if step.Panic {
		panic("scripted executor panic")
	}
	if step.Block {
		<-ctx.Done()
		return ctx.Err()
	}
	return step.Err
}

// Calls returns the operations received so far, in call order
func (e *ScriptedExecutor[T]) Calls() []T {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]T, len(e.calls))
	copy(out, e.calls)
	return out
}
