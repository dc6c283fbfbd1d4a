package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Aidin1998/execbench/internal/config"
	"github.com/Aidin1998/execbench/internal/estimator"
	"github.com/Aidin1998/execbench/internal/generator"
	"github.com/Aidin1998/execbench/internal/harness"
	"github.com/Aidin1998/execbench/internal/report"
	"github.com/Aidin1998/execbench/pkg/models"
)

// Results collects everything a benchmark run produced
type Results struct {
	Comparison estimator.Comparison
	Summaries  []harness.Summary
	Target     report.Target
}

// run executes the estimator comparison followed by every harness scenario
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Results, error) {
	var res Results

	params, err := cfg.Generator.Params(cfg.Estimator.Seed)
	if err != nil {
		return res, err
	}

	logSink := report.NewLogSink(logger)
	metricsSink := report.NewMetricsSink()
	sink := report.Multi(logSink, metricsSink)

	batch, err := generator.Distributed(cfg.Estimator.Orders, cfg.Estimator.PriceLevels, params)
	if err != nil {
		return res, fmt.Errorf("generate batch: %w", err)
	}
	res.Comparison, err = compare(cfg.Estimator, batch)
	if err != nil {
		return res, fmt.Errorf("estimate: %w", err)
	}
	if err := sink.Comparison(ctx, "estimate", res.Comparison); err != nil {
		return res, err
	}

	hc := cfg.Harness
	for _, sc := range hc.Scenarios {
		if ctx.Err() != nil {
			logger.Warn("Interrupted, skipping remaining scenarios", zap.String("next", sc.Name))
			break
		}
		orders, err := sc.Generate(params)
		if err != nil {
			return res, err
		}

		var exec harness.Executor[models.Order] = &harness.SimulatedExecutor[models.Order]{
			Latency:   hc.Latency,
			FailEvery: hc.FailEvery,
		}
		exec = harness.WithTimeout(harness.WithRecover(exec), hc.Timeout)
		exec = harness.WithBreaker(exec, harness.NewCircuitBreaker(hc.BreakerThreshold, hc.BreakerCooldown, nil))

		runner := harness.NewRunner(logger.With(zap.String("scenario", sc.Name)), exec,
			harness.WithConcurrency(hc.Concurrency),
			harness.WithObserver(metricsSink.Observer(sc.Name)))

		var sum harness.Summary
		if hc.Concurrency > 1 {
			sum = runner.RunConcurrent(ctx, orders)
		} else {
			sum = runner.Run(ctx, orders)
		}
		if err := sink.Stats(ctx, sc.Name, sum); err != nil {
			return res, err
		}
		res.Summaries = append(res.Summaries, sum)
	}

	res.Target = report.TargetCheck(res.Summaries, hc.TargetTPS)
	logSink.Target(res.Target)
	return res, nil
}

func compare(cfg config.EstimatorConfig, batch []models.Order) (estimator.Comparison, error) {
	switch cfg.Partition {
	case config.PartitionByPrice:
		return estimator.Compare(batch, cfg.SequentialUnit, cfg.ParallelUnit, estimator.KeyByPrice)
	case config.PartitionBySide:
		return estimator.Compare(batch, cfg.SequentialUnit, cfg.ParallelUnit, estimator.KeyBySide)
	case config.PartitionByPriceLevel, "":
		return estimator.Compare(batch, cfg.SequentialUnit, cfg.ParallelUnit, estimator.KeyByPriceLevel)
	default:
		return estimator.Comparison{}, fmt.Errorf("%w: unknown partition rule %q",
			estimator.ErrInvalidConfiguration, cfg.Partition)
	}
}
