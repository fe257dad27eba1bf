// Package config provides configuration loading and validation for the advisor.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Defaults
const (
	DefaultPort            = 8080
	DefaultCacheTTL        = "10m"
	DefaultLogLevel        = "info"
	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = "30s"
)

// Environment variables overriding file values
const (
	EnvPort            = "PORT"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvRedisURL        = "REDIS_URL"
	EnvDataset         = "ADVISOR_DATASET"
	EnvCacheTTL        = "ADVISOR_CACHE_TTL"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogDevelopment  = "LOG_DEVELOPMENT"
	EnvBreakerFailures = "ADVISOR_BREAKER_FAILURES"
	EnvBreakerTimeout  = "ADVISOR_BREAKER_TIMEOUT"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Config represents the advisor configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or environment variables.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Data sources; exactly one of DatabaseURL and Dataset selects the store
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Dataset     string `json:"dataset,omitempty"`      // Path to a JSON dataset file
	RedisURL    string `json:"redis_url,omitempty"`    // Optional offering cache
	CacheTTL    string `json:"cache_ttl,omitempty"`    // Offering cache TTL, e.g. "10m"

	// Resilience
	BreakerFailures int    `json:"breaker_failures,omitempty"` // Consecutive failures that open the circuit
	BreakerTimeout  string `json:"breaker_timeout,omitempty"`  // Time the circuit stays open

	// Logging
	LogLevel       string `json:"log_level,omitempty"`       // debug, info, warn, error
	LogDevelopment bool   `json:"log_development,omitempty"` // Console output instead of JSON
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load reads the optional file at path, applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		Port:            DefaultPort,
		CacheTTL:        DefaultCacheTTL,
		LogLevel:        DefaultLogLevel,
		BreakerFailures: DefaultBreakerFailures,
		BreakerTimeout:  DefaultBreakerTimeout,
	}
}

// ApplyEnv overrides fields with any environment variables that are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer: %w", EnvPort, err)
		}
		c.Port = port
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv(EnvDataset); v != "" {
		c.Dataset = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv(EnvCacheTTL); v != "" {
		c.CacheTTL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogDevelopment); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be a boolean: %w", EnvLogDevelopment, err)
		}
		c.LogDevelopment = dev
	}
	if v := os.Getenv(EnvBreakerFailures); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer: %w", EnvBreakerFailures, err)
		}
		c.BreakerFailures = n
	}
	if v := os.Getenv(EnvBreakerTimeout); v != "" {
		c.BreakerTimeout = v
	}
	return nil
}

// Validate checks that the configuration has valid values.
// It does not require a data source; commands that need one call RequireStore.
func (c *Config) Validate() error {
	if c.DatabaseURL != "" && c.Dataset != "" {
		return fmt.Errorf("config error: 'database_url' and 'dataset' are mutually exclusive")
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.BreakerFailures < 0 {
		return fmt.Errorf("config error: 'breaker_failures' must be non-negative")
	}

	if _, err := parseDuration("cache_ttl", c.CacheTTL); err != nil {
		return err
	}
	if _, err := parseDuration("breaker_timeout", c.BreakerTimeout); err != nil {
		return err
	}

	if c.LogLevel != "" && !logLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("config error: unknown 'log_level' %q", c.LogLevel)
	}

	if c.Dataset != "" {
		if _, err := os.Stat(c.Dataset); os.IsNotExist(err) {
			return fmt.Errorf("config error: dataset file not found: %s", c.Dataset)
		}
	}

	return nil
}

// RequireStore returns an error unless a data source is configured.
func (c *Config) RequireStore() error {
	if c.DatabaseURL == "" && c.Dataset == "" {
		return fmt.Errorf("config error: one of 'database_url' (%s) or 'dataset' (%s) is required", EnvDatabaseURL, EnvDataset)
	}
	return nil
}

// CacheTTLDuration returns the parsed cache TTL, or zero when unset.
func (c *Config) CacheTTLDuration() time.Duration {
	d, _ := parseDuration("cache_ttl", c.CacheTTL)
	return d
}

// BreakerTimeoutDuration returns the parsed breaker timeout, or zero when unset.
func (c *Config) BreakerTimeoutDuration() time.Duration {
	d, _ := parseDuration("breaker_timeout", c.BreakerTimeout)
	return d
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Dataset == "" {
		result.Dataset = defaults.Dataset
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.CacheTTL == "" {
		result.CacheTTL = defaults.CacheTTL
	}
	if result.BreakerTimeout == "" {
		result.BreakerTimeout = defaults.BreakerTimeout
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.BreakerFailures == 0 {
		result.BreakerFailures = defaults.BreakerFailures
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config error: '%s' is not a duration: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config error: '%s' must be non-negative", field)
	}
	return d, nil
}
