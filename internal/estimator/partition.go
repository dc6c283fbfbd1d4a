package estimator

import (
	"github.com/tidwall/btree"

	"github.com/Aidin1998/execbench/pkg/models"
)

// Key is the set of types usable as a partition key. Groups are stored in a
// btree, so keys are limited to ordered scalars rather than any comparable
// type. A composite key (e.g. level and side) is expressed by a KeyFunc that
// encodes it as a string or packs it into an integer.
type Key interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~string
}

// KeyFunc maps an order to its independence key. It must be deterministic and
// free of side effects.
type KeyFunc[K Key] func(models.Order) K

// KeyByPriceLevel partitions by the order's price level (one storage slot per level).
func KeyByPriceLevel(o models.Order) int64 { return o.PriceLevel }

// KeyByPrice partitions by exact price.
func KeyByPrice(o models.Order) int64 { return o.Price }

// KeyBySide collapses the batch into at most two groups (bid and ask).
func KeyBySide(o models.Order) uint8 { return uint8(o.Side) }

// Groups maps partition keys to the orders sharing them, in arrival order.
// Read-only once built by Partition.
type Groups[K Key] struct {
	m       *btree.Map[K, []models.Order]
	maxSize int
	orders  int
}

// Partition splits batch into independence groups. Order inside a group
// follows arrival order; order across groups is by ascending key.
func Partition[K Key](batch []models.Order, keyFn KeyFunc[K]) (*Groups[K], error) {
	if keyFn == nil {
		return nil, errNilKeyFunc
	}

	g := &Groups[K]{m: btree.NewMap[K, []models.Order](32)}
	for _, o := range batch {
		k := keyFn(o)
		members, _ := g.m.Get(k)
		members = append(members, o)
		g.m.Set(k, members)
		if len(members) > g.maxSize {
			g.maxSize = len(members)
		}
	}
	g.orders = len(batch)
	return g, nil
}

// Len returns the number of distinct keys
func (g *Groups[K]) Len() int {
	return g.m.Len()
}

// Orders returns the number of orders across all groups
func (g *Groups[K]) Orders() int {
	return g.orders
}

// MaxSize returns the size of the largest group, 0 for an empty batch.
func (g *Groups[K]) MaxSize() int {
	return g.maxSize
}

// Get returns the orders sharing key. The returned slice must not be modified.
func (g *Groups[K]) Get(key K) ([]models.Order, bool) {
	return g.m.Get(key)
}

// Keys returns the partition keys in ascending order
func (g *Groups[K]) Keys() []K {
	keys := make([]K, 0, g.m.Len())
	g.m.Scan(func(k K, _ []models.Order) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Sizes returns group sizes in ascending key order
func (g *Groups[K]) Sizes() []int {
	sizes := make([]int, 0, g.m.Len())
	g.m.Scan(func(_ K, members []models.Order) bool {
		sizes = append(sizes, len(members))
		return true
	})
	return sizes
}
