package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EstimatedOrders counts orders passed through the estimator by mode (sequential/parallel)
var EstimatedOrders = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "execbench_estimated_orders_total",
		Help: "Total number of orders evaluated by the execution estimator",
	},
	[]string{"run", "mode"},
)

// EstimatedThroughput is the projected orders per second of the last estimate by mode
var EstimatedThroughput = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "execbench_estimated_throughput_ops",
		Help: "Estimated orders per second of the last estimation",
	},
	[]string{"run", "mode"},
)

// EstimatedSpeedup records the parallel speedup of the last comparison
var EstimatedSpeedup = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "execbench_estimated_speedup_ratio",
		Help: "Sequential time divided by parallel time",
	},
	[]string{"run"},
)

// Harness run metrics
var (
	HarnessOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "execbench_harness_operations_total",
			Help: "Operations executed by the harness by outcome (success/failure)",
		},
		[]string{"scenario", "outcome"},
	)

	HarnessLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "execbench_harness_operation_latency_seconds",
			Help:    "Latency in seconds of individual harness operations",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16),
		},
		[]string{"scenario"},
	)

	HarnessThroughput = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "execbench_harness_throughput_ops",
			Help: "Successful operations per second of the last harness run",
		},
		[]string{"scenario"},
	)

	HarnessPercentile = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "execbench_harness_latency_percentile_seconds",
			Help: "Nearest-rank latency percentiles of the last harness run",
		},
		[]string{"scenario", "quantile"},
	)
)

func init() {
	prometheus.MustRegister(EstimatedOrders, EstimatedThroughput, EstimatedSpeedup)
	prometheus.MustRegister(HarnessOperations, HarnessLatency, HarnessThroughput, HarnessPercentile)
}
