// Package generator produces order batches spread over price levels, the
// input the estimator and the harness are benchmarked with.
package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/Aidin1998/execbench/pkg/models"
)

var (
	ErrInvalidParams = errors.New("invalid generator parameters")

	maxUnits = decimal.NewFromInt(math.MaxInt64)
)

// Params describes generated orders in human units. Values are converted to
// smallest units with QuoteDecimals (price) and BaseDecimals (amount).
type Params struct {
	BasePrice     decimal.Decimal
	PriceStep     decimal.Decimal
	Amount        decimal.Decimal
	QuoteDecimals int32
	BaseDecimals  int32

	// Seed drives the random buy/sell choice. Ignored when Alternate is set.
	Seed      uint64
	Alternate bool // even orders buy, odd orders sell
}

// DefaultParams returns a WETH/USDC-like market: 3000 base price, 10 step,
// 0.1 amount, 6 quote decimals, 18 base decimals.
func DefaultParams() Params {
	return Params{
		BasePrice:     decimal.NewFromInt(3000),
		PriceStep:     decimal.NewFromInt(10),
		Amount:        decimal.New(1, -1),
		QuoteDecimals: 6,
		BaseDecimals:  18,
		Seed:          1,
	}
}

// ToUnits converts a human-unit value to an integer amount of smallest units.
// The value must be exact at the given precision and fit in int64.
func ToUnits(v decimal.Decimal, decimals int32) (int64, error) {
	shifted := v.Shift(decimals)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: %s has more than %d decimals", ErrInvalidParams, v, decimals)
	}
	if shifted.Abs().GreaterThan(maxUnits) {
		return 0, fmt.Errorf("%w: %s overflows smallest units", ErrInvalidParams, v)
	}
	return shifted.IntPart(), nil
}

// Distributed generates count orders; order i sits on price level i%levels,
// so levels receive equal shares (the first count%levels levels get one more).
func Distributed(count, levels int, p Params) ([]models.Order, error) {
	if count < 0 || levels <= 0 {
		return nil, fmt.Errorf("%w: count %d, levels %d", ErrInvalidParams, count, levels)
	}

	base, err := ToUnits(p.BasePrice, p.QuoteDecimals)
	if err != nil {
		return nil, fmt.Errorf("base price: %w", err)
	}
	step, err := ToUnits(p.PriceStep, p.QuoteDecimals)
	if err != nil {
		return nil, fmt.Errorf("price step: %w", err)
	}
	amount, err := ToUnits(p.Amount, p.BaseDecimals)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}

	rng := rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15))
	orders := make([]models.Order, 0, count)
	for i := 0; i < count; i++ {
		level := int64(i % levels)

		side := models.Sell
		if p.Alternate {
			if i%2 == 0 {
				side = models.Buy
			}
		} else if rng.IntN(2) == 0 {
			side = models.Buy
		}

		o, err := models.NewOrder(int64(i), base+level*step, amount, side, base, step)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// Scenario is a named load level for harness runs
type Scenario struct {
	Name   string `mapstructure:"name" json:"name" validate:"required"`
	Orders int    `mapstructure:"orders" json:"orders" validate:"gt=0"`
	Levels int    `mapstructure:"levels" json:"levels" validate:"gt=0"`
}

// DefaultScenarios returns light, medium and heavy loads over 50 price levels
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "light", Orders: 100, Levels: 50},
		{Name: "medium", Orders: 500, Levels: 50},
		{Name: "heavy", Orders: 1000, Levels: 50},
	}
}

// Generate builds the scenario's batch with alternating sides
func (s Scenario) Generate(p Params) ([]models.Order, error) {
	p.Alternate = true
	orders, err := Distributed(s.Orders, s.Levels, p)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return orders, nil
}
