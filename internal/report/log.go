package report

import (
	"context"

	"go.uber.org/zap"

	"github.com/Aidin1998/execbench/internal/estimator"
	"github.com/Aidin1998/execbench/internal/harness"
)

// LogSink writes results as structured log entries
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a LogSink
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("report")}
}

// Comparison logs both estimations and the derived metrics
func (l *LogSink) Comparison(_ context.Context, name string, c estimator.Comparison) error {
	fields := []zap.Field{
		zap.String("run", name),
		zap.Int("orders", c.Sequential.Orders),
		zap.Duration("sequential_time", c.Sequential.TotalTime),
		zap.Float64("sequential_tps", c.Sequential.Throughput),
		zap.Int("partitions", c.Parallel.PartitionCount),
		zap.Int("max_group_size", c.Parallel.MaxGroupSize),
		zap.Duration("parallel_time", c.Parallel.TotalTime),
		zap.Float64("parallel_tps", c.Parallel.Throughput),
	}
	if !c.Applicable {
		l.logger.Info("Execution estimate (empty batch, speedup not applicable)", fields...)
		return nil
	}
	fields = append(fields,
		zap.Float64("speedup", c.Speedup),
		zap.Float64("efficiency_gain_pct", c.EfficiencyGain))
	l.logger.Info("Execution estimate", fields...)
	return nil
}

// Stats logs a harness summary. Runs with failures are logged at warn level.
func (l *LogSink) Stats(_ context.Context, name string, s harness.Summary) error {
	fields := []zap.Field{
		zap.String("scenario", name),
		zap.String("run_id", s.RunID.String()),
		zap.Int("total", s.Total),
		zap.Int("successful", s.Successful),
		zap.Int("failed", s.Failed),
		zap.Float64("error_rate_pct", s.ErrorRate()),
		zap.Duration("elapsed", s.Elapsed),
		zap.Float64("throughput", s.Throughput),
		zap.Duration("avg", s.AvgLatency),
		zap.Duration("min", s.MinLatency),
		zap.Duration("max", s.MaxLatency),
		zap.Duration("stddev", s.StdDevLatency),
		zap.Duration("p50", s.P50),
		zap.Duration("p95", s.P95),
		zap.Duration("p99", s.P99),
	}
	if s.Failed > 0 {
		l.logger.Warn("Scenario completed with failures", fields...)
		return nil
	}
	l.logger.Info("Scenario completed", fields...)
	return nil
}

// Target logs the outcome of TargetCheck
func (l *LogSink) Target(t Target) {
	fields := []zap.Field{
		zap.Int("scenarios", t.Scenarios),
		zap.Float64("average_tps", t.AverageTPS),
		zap.Float64("target_tps", t.TargetTPS),
	}
	if t.Met {
		l.logger.Info("Throughput target met", fields...)
	} else {
		l.logger.Warn("Throughput target missed", fields...)
	}
}
