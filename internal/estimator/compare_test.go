package estimator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aidin1998/execbench/testutil"
)

func TestCompare(t *testing.T) {
	t.Run("DistributedBatch", func(t *testing.T) {
		c, err := Compare(testutil.Batch(1000, 100), 1500*time.Millisecond, 1500*time.Millisecond, KeyByPriceLevel)
		require.NoError(t, err)
		assert.True(t, c.Applicable)
		assert.Equal(t, 100.0, c.Speedup)
		assert.InDelta(t, 9900.0, c.EfficiencyGain, 1e-6)
	})

	t.Run("DifferentUnitTimes", func(t *testing.T) {
		c, err := Compare(testutil.Batch(100, 10), time.Second, 2*time.Second, KeyByPriceLevel)
		require.NoError(t, err)
		assert.Equal(t, 100*time.Second, c.Sequential.TotalTime)
		assert.Equal(t, 20*time.Second, c.Parallel.TotalTime)
		assert.Equal(t, 5.0, c.Speedup)
	})

	t.Run("EmptyBatchIsNotApplicable", func(t *testing.T) {
		c, err := Compare(nil, time.Second, time.Second, KeyByPriceLevel)
		require.NoError(t, err)
		assert.False(t, c.Applicable)
		assert.Equal(t, 1.0, c.Speedup)
		assert.Zero(t, c.EfficiencyGain)
	})

	t.Run("InvalidUnitTime", func(t *testing.T) {
		_, err := Compare(testutil.Batch(3, 1), time.Second, 0, KeyByPriceLevel)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})
}
