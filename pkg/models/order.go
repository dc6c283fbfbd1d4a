package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Side is the direction of an order
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// Order is an immutable order as seen by the capacity estimator.
// Price and Amount are expressed in the smallest currency / asset unit.
type Order struct {
	ID         int64 `json:"id"`
	Price      int64 `json:"price" validate:"gt=0"`
	Amount     int64 `json:"amount" validate:"gt=0"`
	Side       Side  `json:"side" validate:"oneof=0 1"`
	PriceLevel int64 `json:"price_level"` // partition key, price bucketed to a fixed step
}

// Common validation errors
var (
	ErrInvalidPrice  = errors.New("price must be positive")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidStep   = errors.New("price step must be positive")
	ErrInvalidSide   = errors.New("side must be buy or sell")
)

var validate = validator.New()

// NewOrder builds an order and derives its price level from base and step.
func NewOrder(id, price, amount int64, side Side, base, step int64) (Order, error) {
	level, err := PriceLevelOf(price, base, step)
	if err != nil {
		return Order{}, err
	}
	o := Order{
		ID:         id,
		Price:      price,
		Amount:     amount,
		Side:       side,
		PriceLevel: level,
	}
	if err := o.Validate(); err != nil {
		return Order{}, fmt.Errorf("order %d: %w", id, err)
	}
	return o, nil
}

// PriceLevelOf buckets price into levels of width step starting at base.
// Prices below base land in negative levels.
func PriceLevelOf(price, base, step int64) (int64, error) {
	if step <= 0 {
		return 0, ErrInvalidStep
	}
	diff := price - base
	level := diff / step
	if diff%step != 0 && diff < 0 {
		level-- // floor division
	}
	return level, nil
}

// IsBuy reports whether the order is on the bid side
func (o Order) IsBuy() bool {
	return o.Side == Buy
}

// Validate checks the struct tags and maps the first failing field to its
// sentinel error
func (o Order) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Field() {
	case "Price":
		return ErrInvalidPrice
	case "Amount":
		return ErrInvalidAmount
	case "Side":
		return ErrInvalidSide
	default:
		return err
	}
}
