// Package config provides configuration management for the route-rule analyzer.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified YAML file and environment variables.
// Environment variables take precedence over file values.
// Environment variable format: ROUTEANALYZE_<SECTION>_<KEY> (e.g. ROUTEANALYZE_RUN_PING_COUNT).
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("ROUTEANALYZE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Run defaults
	v.SetDefault("run.days_to_scan", 7)
	v.SetDefault("run.ping_count", 10)
	v.SetDefault("run.refresh_concurrency", 16)
	v.SetDefault("run.timeout", 5*time.Minute)

	// Vantage timeouts have no default; the CLI does not read them.

	// Event store defaults
	v.SetDefault("event_store.driver", "http")
	v.SetDefault("event_store.timeout", 30*time.Second)
	v.SetDefault("event_store.retry_count", 3)

	// Host store defaults
	v.SetDefault("host_store.driver", "dynamodb")

	// Output defaults
	v.SetDefault("output.dir", "./rules")
	v.SetDefault("output.diagnostic_report", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
