package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Aidin1998/execbench/internal/generator"
)

// Partition rules accepted by EstimatorConfig.Partition
const (
	PartitionByPriceLevel = "price_level"
	PartitionByPrice      = "price"
	PartitionBySide       = "side"
)

// Config is the complete execbench configuration
type Config struct {
	Log       LogConfig       `mapstructure:"log" json:"log"`
	Estimator EstimatorConfig `mapstructure:"estimator" json:"estimator"`
	Generator GeneratorConfig `mapstructure:"generator" json:"generator"`
	Harness   HarnessConfig   `mapstructure:"harness" json:"harness"`
	Metrics   MetricsConfig   `mapstructure:"metrics" json:"metrics"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" json:"format" validate:"oneof=json console"`
}

// EstimatorConfig drives the sequential/parallel comparison run
type EstimatorConfig struct {
	Orders         int           `mapstructure:"orders" json:"orders" validate:"gte=0"`
	PriceLevels    int           `mapstructure:"price_levels" json:"price_levels" validate:"gt=0"`
	SequentialUnit time.Duration `mapstructure:"sequential_unit" json:"sequential_unit" validate:"gt=0"`
	ParallelUnit   time.Duration `mapstructure:"parallel_unit" json:"parallel_unit" validate:"gt=0"`
	Partition      string        `mapstructure:"partition" json:"partition" validate:"oneof=price_level price side"`
	Seed           uint64        `mapstructure:"seed" json:"seed"`
}

// GeneratorConfig holds order parameters in human units
type GeneratorConfig struct {
	BasePrice     string `mapstructure:"base_price" json:"base_price" validate:"required,numeric"`
	PriceStep     string `mapstructure:"price_step" json:"price_step" validate:"required,numeric"`
	Amount        string `mapstructure:"amount" json:"amount" validate:"required,numeric"`
	QuoteDecimals int32  `mapstructure:"quote_decimals" json:"quote_decimals" validate:"gte=0,lte=18"`
	BaseDecimals  int32  `mapstructure:"base_decimals" json:"base_decimals" validate:"gte=0,lte=18"`
}

// HarnessConfig drives the latency/throughput scenarios
type HarnessConfig struct {
	Scenarios        []generator.Scenario `mapstructure:"scenarios" json:"scenarios" validate:"dive"`
	Latency          time.Duration        `mapstructure:"latency" json:"latency" validate:"gte=0"`
	FailEvery        int                  `mapstructure:"fail_every" json:"fail_every" validate:"gte=0"`
	Timeout          time.Duration        `mapstructure:"timeout" json:"timeout" validate:"gte=0"`
	Concurrency      int                  `mapstructure:"concurrency" json:"concurrency" validate:"gte=1"`
	BreakerThreshold int                  `mapstructure:"breaker_threshold" json:"breaker_threshold" validate:"gte=0"`
	BreakerCooldown  time.Duration        `mapstructure:"breaker_cooldown" json:"breaker_cooldown" validate:"gte=0"`
	TargetTPS        float64              `mapstructure:"target_tps" json:"target_tps" validate:"gte=0"`
}

// MetricsConfig represents the Prometheus endpoint; an empty Listen disables it
type MetricsConfig struct {
	Listen string `mapstructure:"listen" json:"listen" validate:"omitempty,hostname_port"`
}

var validate = validator.New()

// Validate checks struct tags and the decimal fields
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := c.Generator.Params(c.Estimator.Seed); err != nil {
		return err
	}
	return nil
}

// Params converts the generator section to generator.Params
func (g GeneratorConfig) Params(seed uint64) (generator.Params, error) {
	base, err := decimal.NewFromString(g.BasePrice)
	if err != nil {
		return generator.Params{}, fmt.Errorf("invalid base_price %q: %w", g.BasePrice, err)
	}
	step, err := decimal.NewFromString(g.PriceStep)
	if err != nil {
		return generator.Params{}, fmt.Errorf("invalid price_step %q: %w", g.PriceStep, err)
	}
	amount, err := decimal.NewFromString(g.Amount)
	if err != nil {
		return generator.Params{}, fmt.Errorf("invalid amount %q: %w", g.Amount, err)
	}
	if !step.IsPositive() {
		return generator.Params{}, fmt.Errorf("price_step must be positive, got %s", step)
	}
	return generator.Params{
		BasePrice:     base,
		PriceStep:     step,
		Amount:        amount,
		QuoteDecimals: g.QuoteDecimals,
		BaseDecimals:  g.BaseDecimals,
		Seed:          seed,
	}, nil
}

// String returns a short representation for logs
func (c *Config) String() string {
	return fmt.Sprintf(
		"Estimator{Orders:%d, Levels:%d, Seq:%s, Par:%s, Partition:%s}, Harness{Scenarios:%d, Concurrency:%d}",
		c.Estimator.Orders, c.Estimator.PriceLevels, c.Estimator.SequentialUnit, c.Estimator.ParallelUnit,
		c.Estimator.Partition, len(c.Harness.Scenarios), c.Harness.Concurrency,
	)
}
