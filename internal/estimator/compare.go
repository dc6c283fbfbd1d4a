package estimator

import (
	"errors"
	"time"

	"github.com/Aidin1998/execbench/pkg/models"
)

// Comparison holds both estimations of one batch and the derived metrics.
// When Applicable is false the batch was empty: Speedup is 1 and
// EfficiencyGain is 0.
type Comparison struct {
	Sequential     ExecutionResult `json:"sequential"`
	Parallel       ExecutionResult `json:"parallel"`
	Speedup        float64         `json:"speedup"`
	EfficiencyGain float64         `json:"efficiency_gain_pct"`
	Applicable     bool            `json:"applicable"`
}

// Compare runs both estimators over batch and derives speedup and efficiency.
// Sequential and parallel unit times may differ.
func Compare[K Key](batch []models.Order, seqUnit, parUnit time.Duration, keyFn KeyFunc[K]) (Comparison, error) {
	seq, err := EstimateSequential(batch, seqUnit)
	if err != nil {
		return Comparison{}, err
	}
	par, err := EstimateParallel(batch, parUnit, keyFn)
	if err != nil {
		return Comparison{}, err
	}

	c := Comparison{Sequential: seq, Parallel: par, Applicable: true}

	c.Speedup, err = Speedup(seq, par)
	if errors.Is(err, ErrNotApplicable) {
		c.Applicable = false
	} else if err != nil {
		return Comparison{}, err
	}

	c.EfficiencyGain, err = EfficiencyGain(seq, par)
	if errors.Is(err, ErrNotApplicable) {
		c.Applicable = false
	} else if err != nil {
		return Comparison{}, err
	}
	return c, nil
}
