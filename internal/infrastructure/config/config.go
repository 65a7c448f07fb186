// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	tolerance := cfg.Reconciliation.AmountTolerance
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/finops-recon/internal/domain/recon"
)

var validate = validator.New()

// Config represents the entire application configuration.
type Config struct {
	Inputs         InputsConfig         `yaml:"inputs"`
	Reconciliation ReconciliationConfig `yaml:"reconciliation"`
	Reports        ReportsConfig        `yaml:"reports"`
	Server         ServerConfig         `yaml:"server"`
	Observability  ObservabilityConfig  `yaml:"observability"`
}

// InputsConfig holds the default input file locations.
type InputsConfig struct {
	Orders    string `yaml:"orders"`
	Shipments string `yaml:"shipments"`
	Invoices  string `yaml:"invoices"`
	Ledger    string `yaml:"ledger"`
}

// ReconciliationConfig holds the engine tolerances.
type ReconciliationConfig struct {
	AmountTolerance     string `yaml:"amount_tolerance" validate:"omitempty,number"`
	TimingToleranceDays int    `yaml:"timing_tolerance_days" validate:"gte=0"`
}

// ReportsConfig holds report generation settings.
type ReportsConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// EngineConfig converts the configured tolerances into engine form. The
// amount tolerance has already passed the "number" validation, so a parse
// failure here falls back to the default.
func (c *Config) EngineConfig() recon.Config {
	cfg := recon.DefaultConfig()
	if tolerance, err := decimal.NewFromString(c.Reconciliation.AmountTolerance); err == nil && !tolerance.IsNegative() {
		cfg.AmountTolerance = tolerance
	}
	if c.Reconciliation.TimingToleranceDays >= 0 {
		cfg.TimingToleranceDays = c.Reconciliation.TimingToleranceDays
	}
	return cfg
}

// Load reads and parses the config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g. ${RECON_OUTPUT_DIR})
	expanded := os.ExpandEnv(string(data))

	cfg := defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() *Config {
	return &Config{
		Inputs: InputsConfig{
			Orders:    getEnv("RECON_ORDERS_FILE", "sample_data/orders.csv"),
			Shipments: getEnv("RECON_SHIPMENTS_FILE", "sample_data/shipments.csv"),
			Invoices:  getEnv("RECON_INVOICES_FILE", "sample_data/invoices.csv"),
			Ledger:    getEnv("RECON_LEDGER_FILE", "sample_data/ledger_postings.csv"),
		},
		Reconciliation: ReconciliationConfig{
			AmountTolerance:     getEnv("RECON_AMOUNT_TOLERANCE", "0.01"),
			TimingToleranceDays: getEnvInt("RECON_TIMING_TOLERANCE_DAYS", 5),
		},
		Reports: ReportsConfig{
			OutputDir: getEnv("RECON_OUTPUT_DIR", "outputs"),
		},
		Server: ServerConfig{
			Addr: getEnv("RECON_SERVER_ADDR", ":8080"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment
// variables.
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from the specified path, falls back to
// environment variables.
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// defaults returns a config pre-filled with the standard values, so a
// partial YAML file only overrides what it mentions.
func defaults() *Config {
	return &Config{
		Inputs: InputsConfig{
			Orders:    "sample_data/orders.csv",
			Shipments: "sample_data/shipments.csv",
			Invoices:  "sample_data/invoices.csv",
			Ledger:    "sample_data/ledger_postings.csv",
		},
		Reconciliation: ReconciliationConfig{
			AmountTolerance:     "0.01",
			TimingToleranceDays: 5,
		},
		Reports: ReportsConfig{
			OutputDir: "outputs",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

// getEnv retrieves an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default.
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
