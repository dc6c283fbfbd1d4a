// Package estimator computes idealized completion time and throughput of an
// order batch under sequential and price-level-parallel execution.
//
// The parallel model is a capacity upper bound: every time unit advances each
// independence group by exactly one order, so the critical path is the largest
// group. Cross-group conflicts, retries and contention are not modeled.
package estimator

import (
	"fmt"
	"math"
	"time"

	"github.com/Aidin1998/execbench/pkg/models"
)

// Mode tags an execution result
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeParallel   Mode = "parallel"
)

// ExecutionResult is the outcome of one estimation run.
// TotalTime is always TimeUnits * UnitTime.
type ExecutionResult struct {
	Mode       Mode          `json:"mode"`
	Orders     int           `json:"orders"`
	UnitTime   time.Duration `json:"unit_time"`
	TimeUnits  int           `json:"time_units"`
	TotalTime  time.Duration `json:"total_time"`
	Throughput float64       `json:"throughput"` // orders per second

	// Parallel only
	PartitionCount int `json:"partition_count,omitempty"`
	MaxGroupSize   int `json:"max_group_size,omitempty"`
}

// EstimateSequential charges one unit of time per order.
func EstimateSequential(batch []models.Order, unitTime time.Duration) (ExecutionResult, error) {
	if err := checkUnits(len(batch), unitTime); err != nil {
		return ExecutionResult{}, err
	}

	total := time.Duration(len(batch)) * unitTime
	return ExecutionResult{
		Mode:       ModeSequential,
		Orders:     len(batch),
		UnitTime:   unitTime,
		TimeUnits:  len(batch),
		TotalTime:  total,
		Throughput: throughput(len(batch), total),
	}, nil
}

// EstimateParallel partitions batch with keyFn and charges one unit of time
// per order of the largest group.
func EstimateParallel[K Key](batch []models.Order, unitTime time.Duration, keyFn KeyFunc[K]) (ExecutionResult, error) {
	if err := checkUnitTime(unitTime); err != nil {
		return ExecutionResult{}, err
	}
	groups, err := Partition(batch, keyFn)
	if err != nil {
		return ExecutionResult{}, err
	}
	return FromGroups(groups, unitTime)
}

// FromGroups derives the parallel result from an already built partition.
func FromGroups[K Key](groups *Groups[K], unitTime time.Duration) (ExecutionResult, error) {
	units := groups.MaxSize()
	if err := checkUnits(units, unitTime); err != nil {
		return ExecutionResult{}, err
	}
	total := time.Duration(units) * unitTime
	return ExecutionResult{
		Mode:           ModeParallel,
		Orders:         groups.Orders(),
		UnitTime:       unitTime,
		TimeUnits:      units,
		TotalTime:      total,
		Throughput:     throughput(groups.Orders(), total),
		PartitionCount: groups.Len(),
		MaxGroupSize:   units,
	}, nil
}

// Speedup returns seq.TotalTime / par.TotalTime.
// Both zero yields 1.0 with ErrNotApplicable; a zero parallel time against a
// non-zero sequential time yields ErrDivisionByZero.
func Speedup(seq, par ExecutionResult) (float64, error) {
	if par.TotalTime == 0 {
		if seq.TotalTime == 0 {
			return 1.0, ErrNotApplicable
		}
		return 0, fmt.Errorf("speedup: %w", ErrDivisionByZero)
	}
	return float64(seq.TotalTime) / float64(par.TotalTime), nil
}

// EfficiencyGain returns the throughput gain of par over seq in percent.
func EfficiencyGain(seq, par ExecutionResult) (float64, error) {
	if seq.Throughput == 0 {
		if par.Throughput == 0 {
			return 0, ErrNotApplicable
		}
		return 0, fmt.Errorf("efficiency gain: %w", ErrDivisionByZero)
	}
	return (par.Throughput/seq.Throughput - 1) * 100, nil
}

func checkUnitTime(unitTime time.Duration) error {
	if unitTime <= 0 {
		return fmt.Errorf("%w: unit time %s must be positive", ErrInvalidConfiguration, unitTime)
	}
	return nil
}

// checkUnits rejects unit counts whose total time does not fit in a Duration
func checkUnits(units int, unitTime time.Duration) error {
	if err := checkUnitTime(unitTime); err != nil {
		return err
	}
	if int64(units) > math.MaxInt64/int64(unitTime) {
		return fmt.Errorf("%w: %d units of %s overflow the total time", ErrInvalidConfiguration, units, unitTime)
	}
	return nil
}

func throughput(orders int, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(orders) / total.Seconds()
}
