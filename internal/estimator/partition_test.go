package estimator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aidin1998/execbench/pkg/models"
	"github.com/Aidin1998/execbench/testutil"
)

func TestPartition(t *testing.T) {
	batch := testutil.Batch(10, 4) // levels 0..3, sizes 3,3,2,2

	g, err := Partition(batch, KeyByPriceLevel)
	require.NoError(t, err)

	assert.Equal(t, 4, g.Len())
	assert.Equal(t, 10, g.Orders())
	assert.Equal(t, 3, g.MaxSize())
	assert.Equal(t, []int64{0, 1, 2, 3}, g.Keys())
	assert.Equal(t, []int{3, 3, 2, 2}, g.Sizes())

	level1, ok := g.Get(1)
	require.True(t, ok)
	ids := make([]int64, 0, len(level1))
	for _, o := range level1 {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []int64{1, 5, 9}, ids, "arrival order is kept inside a group")

	_, ok = g.Get(42)
	assert.False(t, ok)
}

func TestPartitionBySide(t *testing.T) {
	batch := testutil.Batch(9, 3)

	g, err := Partition(batch, KeyBySide)
	require.NoError(t, err)
	assert.LessOrEqual(t, g.Len(), 2)

	total := 0
	for _, n := range g.Sizes() {
		total += n
	}
	assert.Equal(t, len(batch), total)

	buys, _ := g.Get(uint8(models.Buy))
	for _, o := range buys {
		assert.True(t, o.IsBuy())
	}
}

func TestPartitionStringKeys(t *testing.T) {
	batch := testutil.Batch(6, 6)
	g, err := Partition(batch, func(o models.Order) string { return o.Side.String() })
	require.NoError(t, err)
	assert.Equal(t, []string{"buy", "sell"}, g.Keys())
}

func TestPartitionCompositeKey(t *testing.T) {
	levelAndSide := func(o models.Order) string {
		return fmt.Sprintf("%d/%s", o.PriceLevel, o.Side)
	}
	g, err := Partition(testutil.Batch(6, 3), levelAndSide)
	require.NoError(t, err)
	assert.Equal(t, []string{"0/buy", "0/sell", "1/buy", "1/sell", "2/buy", "2/sell"}, g.Keys())
	assert.Equal(t, 1, g.MaxSize())
}

func TestPartitionEmpty(t *testing.T) {
	g, err := Partition(nil, KeyByPrice)
	require.NoError(t, err)
	assert.Zero(t, g.Len())
	assert.Zero(t, g.MaxSize())
	assert.Empty(t, g.Sizes())

	_, err = Partition(nil, KeyFunc[int64](nil))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
