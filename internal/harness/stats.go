package harness

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sample is the record of one executed operation
type Sample struct {
	Index   int           `json:"index"`
	Latency time.Duration `json:"latency"`
	Err     error         `json:"-"`
}

// OK reports whether the operation succeeded
func (s Sample) OK() bool {
	return s.Err == nil
}

// Summary is the reduction of all samples of one run.
// Latency statistics only cover successful operations.
type Summary struct {
	RunID      uuid.UUID     `json:"run_id"`
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Elapsed    time.Duration `json:"elapsed"`
	Throughput float64       `json:"throughput"` // successful operations per second

	AvgLatency    time.Duration `json:"avg_latency"`
	MinLatency    time.Duration `json:"min_latency"`
	MaxLatency    time.Duration `json:"max_latency"`
	StdDevLatency time.Duration `json:"stddev_latency"`
	P50           time.Duration `json:"p50_latency"`
	P95           time.Duration `json:"p95_latency"`
	P99           time.Duration `json:"p99_latency"`
}

// ErrorRate returns the share of failed operations in percent
func (s Summary) ErrorRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Failed) / float64(s.Total) * 100
}

// Summarize reduces samples to a Summary. elapsed is the wall clock of the
// whole run, not the sum of latencies.
func Summarize(runID uuid.UUID, samples []Sample, elapsed time.Duration) Summary {
	sum := Summary{
		RunID:   runID,
		Total:   len(samples),
		Elapsed: elapsed,
	}

	latencies := make([]time.Duration, 0, len(samples))
	for _, s := range samples {
		if !s.OK() {
			sum.Failed++
			continue
		}
		latencies = append(latencies, s.Latency)
	}
	sum.Successful = len(latencies)
	if elapsed > 0 {
		sum.Throughput = float64(sum.Successful) / elapsed.Seconds()
	}
	if len(latencies) == 0 {
		return sum
	}

	slices.Sort(latencies)
	sum.P50 = Percentile(latencies, 0.50)
	sum.P95 = Percentile(latencies, 0.95)
	sum.P99 = Percentile(latencies, 0.99)

	ns := make([]float64, len(latencies))
	for i, l := range latencies {
		ns[i] = float64(l)
	}
	sum.AvgLatency = time.Duration(math.Round(stat.Mean(ns, nil)))
	sum.MinLatency = time.Duration(floats.Min(ns))
	sum.MaxLatency = time.Duration(floats.Max(ns))
	if len(ns) > 1 {
		sum.StdDevLatency = time.Duration(math.Round(stat.StdDev(ns, nil)))
	}
	return sum
}

// Percentile returns the nearest-rank p-th percentile (sample at floor(p*n))
// of an ascending-sorted slice, without interpolation. Empty input yields 0.
func Percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}
