package harness

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestPercentileNearestRank(t *testing.T) {
	sorted := make([]time.Duration, 100)
	for i := range sorted {
		sorted[i] = ms(i + 1)
	}

	assert.Equal(t, ms(51), Percentile(sorted, 0.50))
	assert.Equal(t, ms(96), Percentile(sorted, 0.95))
	assert.Equal(t, ms(100), Percentile(sorted, 0.99))
	assert.Equal(t, ms(100), Percentile(sorted, 1.0), "p100 clamps to the last sample")
	assert.Equal(t, ms(1), Percentile(sorted, 0))

	assert.Zero(t, Percentile(nil, 0.5))
	assert.Equal(t, ms(7), Percentile([]time.Duration{ms(7)}, 0.99))
}

func TestSummarize(t *testing.T) {
	id := uuid.New()

	t.Run("AllSuccessful", func(t *testing.T) {
		samples := []Sample{
			{Index: 0, Latency: ms(30)},
			{Index: 1, Latency: ms(10)},
			{Index: 2, Latency: ms(20)},
		}
		s := Summarize(id, samples, ms(60))

		assert.Equal(t, id, s.RunID)
		assert.Equal(t, 3, s.Total)
		assert.Equal(t, 3, s.Successful)
		assert.Equal(t, 0, s.Failed)
		assert.Equal(t, ms(20), s.AvgLatency)
		assert.Equal(t, ms(20), s.P50)
		assert.Equal(t, ms(30), s.P95)
		assert.Equal(t, ms(30), s.P99)
		assert.Equal(t, ms(10), s.MinLatency)
		assert.Equal(t, ms(30), s.MaxLatency)
		assert.Equal(t, ms(10), s.StdDevLatency)
		assert.InDelta(t, 50.0, s.Throughput, 1e-9)
		assert.Zero(t, s.ErrorRate())
	})

	t.Run("FailuresExcludedFromLatencies", func(t *testing.T) {
		samples := []Sample{
			{Index: 0, Latency: ms(10)},
			{Index: 1, Latency: ms(500), Err: errors.New("rejected")},
			{Index: 2, Latency: ms(30)},
		}
		s := Summarize(id, samples, ms(540))

		assert.Equal(t, 2, s.Successful)
		assert.Equal(t, 1, s.Failed)
		assert.Equal(t, 3, s.Total)
		assert.Equal(t, ms(20), s.AvgLatency)
		assert.Equal(t, ms(30), s.P50)
		assert.Equal(t, ms(30), s.MaxLatency)
		assert.InDelta(t, 100.0/3, s.ErrorRate(), 1e-9)
	})

	t.Run("Empty", func(t *testing.T) {
		s := Summarize(id, nil, 0)
		assert.Zero(t, s.Total)
		assert.Zero(t, s.AvgLatency)
		assert.Zero(t, s.P50)
		assert.Zero(t, s.P95)
		assert.Zero(t, s.P99)
		assert.Zero(t, s.Throughput)
	})

	t.Run("OnlyFailures", func(t *testing.T) {
		s := Summarize(id, []Sample{{Err: errors.New("x")}}, ms(5))
		assert.Equal(t, 1, s.Failed)
		assert.Zero(t, s.P99)
		assert.Zero(t, s.Throughput)
		assert.Zero(t, s.StdDevLatency)
	})
}
