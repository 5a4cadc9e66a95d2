// Package config provides configuration management for the route-rule analyzer.
package config

import (
	"strings"
	"testing"
	"time"
)

// newValidConfig creates a valid configuration for testing.
func newValidConfig() *Config {
	return &Config{
		Run: RunConfig{
			DaysToScan:         7,
			PingCount:          10,
			RefreshConcurrency: 16,
			Timeout:            5 * time.Minute,
		},
		Vantages: VantagesConfig{
			Central: VantageConfig{
				Address: "central.example.com",
				User:    "ec2-user",
				KeyPath: "/keys/central.pem",
			},
			Domestic: VantageConfig{
				Address: "domestic.example.com",
				User:    "root",
				KeyPath: "/keys/domestic.pem",
			},
			Continents: []ContinentVantageConfig{
				{Tag: "ap", Address: "ap.example.com", User: "root", KeyPath: "/keys/ap.pem"},
				{Tag: "eu", Address: "eu.example.com", User: "root", KeyPath: "/keys/eu.pem"},
			},
		},
		EventStore: EventStoreConfig{
			Driver:     "http",
			BaseURL:    "http://events.example.com",
			Timeout:    30 * time.Second,
			RetryCount: 3,
		},
		HostStore: HostStoreConfig{
			Driver:    "dynamodb",
			TableName: "host-statistics",
			Region:    "us-east-1",
		},
		Output: OutputConfig{
			Dir: "./rules",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := newValidConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil for valid config", err)
	}
}

func TestValidate_MissingCentralAddress(t *testing.T) {
	cfg := newValidConfig()
	cfg.Vantages.Central.Address = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() should return error for missing central address")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "vantages.central.address") {
		t.Errorf("error should mention field 'vantages.central.address', got: %s", errStr)
	}
}

func TestValidate_DaysToScanTooLow(t *testing.T) {
	cfg := newValidConfig()
	cfg.Run.DaysToScan = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() should return error for days_to_scan = 0")
	}
	if !strings.Contains(err.Error(), "run.daystoscan") {
		t.Errorf("error should mention field 'run.daystoscan', got: %s", err.Error())
	}
}

func TestValidate_DaysToScanTooHigh(t *testing.T) {
	cfg := newValidConfig()
	cfg.Run.DaysToScan = 91

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() should return error for days_to_scan = 91")
	}
}

func TestValidate_PingCountTooLow(t *testing.T) {
	cfg := newValidConfig()
	cfg.Run.PingCount = 0

	if err := Validate(cfg); err == nil {
		t.Fatal("Validate() should return error for ping_count = 0")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := newValidConfig()
	cfg.Logging.Level = "verbose"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() should return error for invalid log level")
	}
	if !strings.Contains(err.Error(), "logging.level") {
		t.Errorf("error should mention field 'logging.level', got: %s", err.Error())
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := newValidConfig()
	cfg.Logging.Format = "text"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() should return error for invalid log format")
	}
	if !strings.Contains(err.Error(), "logging.format") {
		t.Errorf("error should mention field 'logging.format', got: %s", err.Error())
	}
}

func TestValidate_DuplicateContinentTags(t *testing.T) {
	cfg := newValidConfig()
	cfg.Vantages.Continents = []ContinentVantageConfig{
		{Tag: "ap", Address: "ap1.example.com", User: "root", KeyPath: "/keys/ap1.pem"},
		{Tag: "ap", Address: "ap2.example.com", User: "root", KeyPath: "/keys/ap2.pem"},
	}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() should return error for duplicate continent tags")
	}
	if !strings.Contains(err.Error(), "duplicate continent tag") {
		t.Errorf("error should mention duplicate tag, got: %s", err.Error())
	}
}

func TestValidate_ReservedContinentTag(t *testing.T) {
	cfg := newValidConfig()
	cfg.Vantages.Continents = []ContinentVantageConfig{
		{Tag: "central", Address: "x.example.com", User: "root", KeyPath: "/keys/x.pem"},
	}

	if err := Validate(cfg); err == nil {
		t.Fatal("Validate() should reject a continent tag that collides with a reserved region name")
	}
}

func TestValidate_EventStoreHTTPRequiresBaseURL(t *testing.T) {
	cfg := newValidConfig()
	cfg.EventStore.Driver = "http"
	cfg.EventStore.BaseURL = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() should require base_url for the http event store driver")
	}
	if !strings.Contains(err.Error(), "event_store.base_url") {
		t.Errorf("error should mention field 'event_store.base_url', got: %s", err.Error())
	}
}

func TestValidate_EventStoreMemoryDoesNotRequireBaseURL(t *testing.T) {
	cfg := newValidConfig()
	cfg.EventStore.Driver = "memory"
	cfg.EventStore.BaseURL = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() should allow empty base_url for the memory event store driver, got: %v", err)
	}
}

func TestValidate_HostStoreDynamoDBRequiresTableAndRegion(t *testing.T) {
	cfg := newValidConfig()
	cfg.HostStore.Driver = "dynamodb"
	cfg.HostStore.TableName = ""
	cfg.HostStore.Region = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() should require table_name and region for the dynamodb host store driver")
	}
	if !strings.Contains(err.Error(), "host_store.table_name") {
		t.Errorf("error should mention field 'host_store.table_name', got: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "host_store.region") {
		t.Errorf("error should mention field 'host_store.region', got: %s", err.Error())
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := newValidConfig()
	cfg.Vantages.Central.Address = "" // Error 1
	cfg.Run.DaysToScan = 0            // Error 2

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() should return error for multiple validation failures")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "vantages.central.address") {
		t.Errorf("error should mention 'vantages.central.address', got: %s", errStr)
	}
	if !strings.Contains(errStr, "run.daystoscan") {
		t.Errorf("error should mention 'run.daystoscan', got: %s", errStr)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Field:   "test.field",
		Tag:     "required",
		Value:   "",
		Message: "this field is required",
	}

	if got, want := err.Error(), "this field is required"; got != want {
		t.Errorf("ValidationError.Error() = %v, want %v", got, want)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errors := ValidationErrors{
		{Field: "field1", Message: "error1"},
		{Field: "field2", Message: "error2"},
	}

	errStr := errors.Error()
	if !strings.Contains(errStr, "config validation failed") {
		t.Errorf("ValidationErrors.Error() should contain header, got: %s", errStr)
	}
	if !strings.Contains(errStr, "field1") || !strings.Contains(errStr, "error1") {
		t.Errorf("ValidationErrors.Error() should contain first error, got: %s", errStr)
	}
	if !strings.Contains(errStr, "field2") || !strings.Contains(errStr, "error2") {
		t.Errorf("ValidationErrors.Error() should contain second error, got: %s", errStr)
	}
}

func TestValidationErrors_Empty(t *testing.T) {
	errors := ValidationErrors{}
	if errors.Error() != "" {
		t.Errorf("Empty ValidationErrors.Error() should return empty string, got: %s", errors.Error())
	}
}
