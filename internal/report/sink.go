// Package report publishes estimator comparisons and harness summaries to
// structured logs and Prometheus collectors.
package report

import (
	"context"

	"github.com/Aidin1998/execbench/internal/estimator"
	"github.com/Aidin1998/execbench/internal/harness"
)

// Sink receives the results of named runs
type Sink interface {
	Comparison(ctx context.Context, name string, c estimator.Comparison) error
	Stats(ctx context.Context, name string, s harness.Summary) error
}

type multiSink []Sink

// Multi fans results out to every sink in order. All sinks are called even
// when one fails; the first error is returned.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) Comparison(ctx context.Context, name string, c estimator.Comparison) error {
	var first error
	for _, s := range m {
		if err := s.Comparison(ctx, name, c); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m multiSink) Stats(ctx context.Context, name string, sum harness.Summary) error {
	var first error
	for _, s := range m {
		if err := s.Stats(ctx, name, sum); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Target is the outcome of comparing average scenario throughput to a goal
type Target struct {
	Scenarios  int     `json:"scenarios"`
	AverageTPS float64 `json:"average_tps"`
	TargetTPS  float64 `json:"target_tps"`
	Met        bool    `json:"met"`
}

// TargetCheck averages the throughput of all summaries. With no summaries the
// target is never met.
func TargetCheck(summaries []harness.Summary, targetTPS float64) Target {
	t := Target{Scenarios: len(summaries), TargetTPS: targetTPS}
	if len(summaries) == 0 {
		return t
	}
	var total float64
	for _, s := range summaries {
		total += s.Throughput
	}
	t.AverageTPS = total / float64(len(summaries))
	t.Met = t.AverageTPS >= targetTPS
	return t
}
