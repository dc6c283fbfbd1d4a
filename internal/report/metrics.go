package report

import (
	"context"

	"github.com/Aidin1998/execbench/internal/estimator"
	"github.com/Aidin1998/execbench/internal/harness"
	"github.com/Aidin1998/execbench/pkg/metrics"
)

// MetricsSink updates the collectors in pkg/metrics
type MetricsSink struct{}

// NewMetricsSink creates a MetricsSink
func NewMetricsSink() *MetricsSink {
	return &MetricsSink{}
}

func (*MetricsSink) Comparison(_ context.Context, name string, c estimator.Comparison) error {
	for _, r := range []estimator.ExecutionResult{c.Sequential, c.Parallel} {
		mode := string(r.Mode)
		metrics.EstimatedOrders.WithLabelValues(name, mode).Add(float64(r.Orders))
		metrics.EstimatedThroughput.WithLabelValues(name, mode).Set(r.Throughput)
	}
	if c.Applicable {
		metrics.EstimatedSpeedup.WithLabelValues(name).Set(c.Speedup)
	}
	return nil
}

func (*MetricsSink) Stats(_ context.Context, name string, s harness.Summary) error {
	metrics.HarnessOperations.WithLabelValues(name, "success").Add(float64(s.Successful))
	metrics.HarnessOperations.WithLabelValues(name, "failure").Add(float64(s.Failed))
	metrics.HarnessThroughput.WithLabelValues(name).Set(s.Throughput)
	metrics.HarnessPercentile.WithLabelValues(name, "0.5").Set(s.P50.Seconds())
	metrics.HarnessPercentile.WithLabelValues(name, "0.95").Set(s.P95.Seconds())
	metrics.HarnessPercentile.WithLabelValues(name, "0.99").Set(s.P99.Seconds())
	return nil
}

// Observer returns a harness observer feeding the latency histogram of
// scenario. Failed operations are not observed.
func (*MetricsSink) Observer(scenario string) func(harness.Sample) {
	hist := metrics.HarnessLatency.WithLabelValues(scenario)
	return func(s harness.Sample) {
		if s.OK() {
			hist.Observe(s.Latency.Seconds())
		}
	}
}
