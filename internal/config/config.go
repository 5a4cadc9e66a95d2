// Package config provides configuration management for the route-rule analyzer.
package config

import "time"

// Config is the root configuration structure for the analyzer.
type Config struct {
	Run        RunConfig        `mapstructure:"run"`
	Vantages    VantagesConfig   `mapstructure:"vantages" validate:"required"`
	EventStore  EventStoreConfig `mapstructure:"event_store" validate:"required"`
	HostStore   HostStoreConfig  `mapstructure:"host_store" validate:"required"`
	Output      OutputConfig     `mapstructure:"output"`
	Logging     LoggingConfig    `mapstructure:"logging"`
}

// RunConfig contains per-run behavior recognized by the analyzer.
type RunConfig struct {
	DaysToScan         int           `mapstructure:"days_to_scan" validate:"gte=1,lte=90"`
	PingCount          int           `mapstructure:"ping_count" validate:"gte=1"`
	RefreshConcurrency int           `mapstructure:"refresh_concurrency" validate:"gte=1"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

// VantagesConfig describes the central, domestic, and continent vantage points.
type VantagesConfig struct {
	Central    VantageConfig   `mapstructure:"central" validate:"required"`
	Domestic   VantageConfig   `mapstructure:"domestic" validate:"required"`
	Continents []ContinentVantageConfig `mapstructure:"continents" validate:"dive"`
}

// VantageConfig holds SSH connection details for a single vantage point.
type VantageConfig struct {
	Address string        `mapstructure:"address" validate:"required"`
	User    string        `mapstructure:"user" validate:"required"`
	KeyPath string        `mapstructure:"key_path" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ContinentVantageConfig is a VantageConfig tagged with its continent, e.g. "ap", "eu".
type ContinentVantageConfig struct {
	Tag     string        `mapstructure:"tag" validate:"required"`
	Address string        `mapstructure:"address" validate:"required"`
	User    string        `mapstructure:"user" validate:"required"`
	KeyPath string        `mapstructure:"key_path" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EventStoreConfig selects and configures the EventStore collaborator.
type EventStoreConfig struct {
	Driver     string        `mapstructure:"driver" validate:"oneof=http memory"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryCount int           `mapstructure:"retry_count" validate:"gte=0,lte=10"`
}

// HostStoreConfig selects and configures the HostStatisticStore collaborator.
type HostStoreConfig struct {
	Driver    string `mapstructure:"driver" validate:"oneof=dynamodb memory"`
	TableName string `mapstructure:"table_name"`
	Region    string `mapstructure:"region"`
}

// OutputConfig controls where and how RouteRules are published.
type OutputConfig struct {
	Dir               string `mapstructure:"dir" validate:"required"`
	DiagnosticReport  bool   `mapstructure:"diagnostic_report"`
}

// LoggingConfig contains configurations for logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}
