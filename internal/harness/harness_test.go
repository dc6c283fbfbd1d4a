package harness

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Aidin1998/execbench/pkg/models"
	"github.com/Aidin1998/execbench/testutil"
)

func TestRunRecordsLatencies(t *testing.T) {
	clock := testutil.NewManualClock()
	exec := testutil.NewScriptedExecutor[models.Order](clock, ms(10), ms(20), ms(30))
	runner := NewRunner[models.Order](zaptest.NewLogger(t), exec, WithClock(clock))

	batch := testutil.Batch(3, 3)
	s := runner.Run(context.Background(), batch)

	assert.Equal(t, 3, s.Successful)
	assert.Equal(t, 0, s.Failed)
	assert.Equal(t, ms(20), s.AvgLatency)
	assert.Equal(t, ms(20), s.P50)
	assert.Equal(t, ms(60), s.Elapsed)
	assert.InDelta(t, 50.0, s.Throughput, 1e-9)
	assert.Equal(t, batch, exec.Calls(), "operations run in order")
}

func TestRunAbsorbsFailures(t *testing.T) {
	clock := testutil.NewManualClock()
	exec := &testutil.ScriptedExecutor[int]{
		Clock: clock,
		Steps: []testutil.Step{
			{Latency: ms(10)},
			{Latency: ms(40), Err: errors.New("reverted")},
			{Latency: ms(30)},
		},
	}
	runner := NewRunner[int](zaptest.NewLogger(t), exec, WithClock(clock))

	s := runner.Run(context.Background(), []int{1, 2, 3})

	assert.Equal(t, 2, s.Successful)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, ms(80), s.Elapsed, "failed operation still counts towards elapsed time")
	assert.Equal(t, ms(30), s.P50)
	assert.Equal(t, ms(20), s.AvgLatency)
}

func TestRunEmpty(t *testing.T) {
	runner := NewRunner[int](zaptest.NewLogger(t), testutil.NewScriptedExecutor[int](nil))
	s := runner.Run(context.Background(), nil)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.P50)
	assert.Zero(t, s.AvgLatency)
}

func TestRunRecoversPanics(t *testing.T) {
	clock := testutil.NewManualClock()
	exec := &testutil.ScriptedExecutor[int]{
		Clock: clock,
		Steps: []testutil.Step{{Latency: ms(5)}, {Latency: ms(5), Panic: true}, {Latency: ms(5)}},
	}
	runner := NewRunner[int](zaptest.NewLogger(t), exec, WithClock(clock))

	var failed []Sample
	runner.observer = func(s Sample) {
		if !s.OK() {
			failed = append(failed, s)
		}
	}

	s := runner.Run(context.Background(), []int{0, 1, 2})
	assert.Equal(t, 2, s.Successful)
	assert.Equal(t, 1, s.Failed)
	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[0].Err, ErrExecutorPanic)
	assert.Equal(t, 1, failed[0].Index)
	assert.Equal(t, ms(5), failed[0].Latency)
}

func TestRunCancelled(t *testing.T) {
	t.Run("BeforeStart", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		exec := testutil.NewScriptedExecutor[int](nil)
		s := NewRunner[int](zaptest.NewLogger(t), exec).Run(ctx, []int{1, 2, 3})

		assert.Equal(t, 3, s.Failed)
		assert.Empty(t, exec.Calls())
	})

	t.Run("MidRun", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var calls atomic.Int32
		exec := ExecutorFunc[int](func(ctx context.Context, op int) error {
			if calls.Add(1) == 2 {
				cancel()
			}
			return nil
		})
		s := NewRunner[int](zaptest.NewLogger(t), exec).Run(ctx, []int{1, 2, 3, 4})

		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, 2, s.Successful)
		assert.Equal(t, 2, s.Failed)
	})
}

func TestObserverSeesEverySample(t *testing.T) {
	clock := testutil.NewManualClock()
	exec := testutil.NewScriptedExecutor[int](clock, ms(1), ms(2))

	var seen []int
	runner := NewRunner[int](zaptest.NewLogger(t), exec,
		WithClock(clock),
		WithObserver(func(s Sample) { seen = append(seen, s.Index) }))

	runner.Run(context.Background(), []int{10, 20, 30, 40})
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
}

func TestRunConcurrent(t *testing.T) {
	const ops, latency = 40, 20 * time.Millisecond

	exec := &SimulatedExecutor[models.Order]{Latency: latency, FailEvery: 10}
	runner := NewRunner[models.Order](zaptest.NewLogger(t), exec, WithConcurrency(20))

	s := runner.RunConcurrent(context.Background(), testutil.Batch(ops, 8))

	assert.Equal(t, ops, s.Total)
	assert.Equal(t, 36, s.Successful)
	assert.Equal(t, 4, s.Failed)
	assert.Equal(t, int64(ops), exec.Calls())
	assert.GreaterOrEqual(t, s.P50, latency)
	// 40 sequential calls would take at least 800ms
	assert.Less(t, s.Elapsed, time.Duration(ops)*latency/2)
	assert.Greater(t, s.Throughput, float64(s.Successful)/(time.Duration(ops)*latency).Seconds())
}

func TestRunConcurrentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &SimulatedExecutor[int]{}
	s := NewRunner[int](zaptest.NewLogger(t), exec, WithConcurrency(4)).RunConcurrent(ctx, []int{1, 2, 3})

	assert.Equal(t, 3, s.Failed)
	assert.Zero(t, exec.Calls())
}
