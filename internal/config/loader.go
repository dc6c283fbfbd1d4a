// Config loader: defaults, optional YAML files and EXECBENCH_* environment variables

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix is prepended to every environment override,
// e.g. EXECBENCH_ESTIMATOR_ORDERS.
const EnvPrefix = "EXECBENCH"

// DefaultPaths are searched when Load is called without paths
var DefaultPaths = []string{
	"./execbench.yaml",
	"./configs/execbench.yaml",
}

// Load builds the configuration from defaults, the given YAML files (missing
// files are skipped) and environment variables, then validates it.
func Load(logger *zap.Logger, paths ...string) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("config")

	v := viper.New()
	setupViper(v)
	setDefaults(v)

	if err := loadConfigFiles(v, logger, paths...); err != nil {
		return nil, fmt.Errorf("failed to load config files: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	logger.Info("Configuration loaded", zap.Stringer("config", &cfg))
	return &cfg, nil
}

// setupViper configures env handling
func setupViper(v *viper.Viper) {
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("estimator.orders", 1000)
	v.SetDefault("estimator.price_levels", 100)
	v.SetDefault("estimator.sequential_unit", "1.5s")
	v.SetDefault("estimator.parallel_unit", "1.5s")
	v.SetDefault("estimator.partition", PartitionByPriceLevel)
	v.SetDefault("estimator.seed", 1)

	v.SetDefault("generator.base_price", "3000")
	v.SetDefault("generator.price_step", "10")
	v.SetDefault("generator.amount", "0.1")
	v.SetDefault("generator.quote_decimals", 6)
	v.SetDefault("generator.base_decimals", 18)

	v.SetDefault("harness.scenarios", []map[string]any{
		{"name": "light", "orders": 100, "levels": 50},
		{"name": "medium", "orders": 500, "levels": 50},
		{"name": "heavy", "orders": 1000, "levels": 50},
	})
	v.SetDefault("harness.latency", "10ms")
	v.SetDefault("harness.fail_every", 0)
	v.SetDefault("harness.timeout", "1s")
	v.SetDefault("harness.concurrency", 1)
	v.SetDefault("harness.breaker_threshold", 0)
	v.SetDefault("harness.breaker_cooldown", "5s")
	v.SetDefault("harness.target_tps", 500)

	v.SetDefault("metrics.listen", "")
}

// loadConfigFiles merges every existing file in order
func loadConfigFiles(v *viper.Viper, logger *zap.Logger, paths ...string) error {
	if len(paths) == 0 {
		paths = DefaultPaths
	}

	var loaded []string
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			logger.Debug("Config file not found, skipping", zap.String("path", path))
			continue
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}

	if len(loaded) == 0 {
		logger.Info("No configuration files found, using defaults and environment variables")
	} else {
		logger.Info("Loaded configuration files", zap.Strings("files", loaded))
	}
	return nil
}
