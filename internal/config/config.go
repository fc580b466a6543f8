// Package config provides configuration management for the listings pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingRawDir         = errors.New("pipeline.raw_dir is required")
	ErrMissingTransformedDir = errors.New("pipeline.transformed_dir is required")
	ErrInvalidTimeout        = errors.New("http.timeout_sec must be at least 1")
	ErrInvalidDriver         = errors.New("database.driver must be 'postgres' or 'sqlite'")
	ErrMissingTable          = errors.New("database.table is required")
	ErrMissingSQLitePath     = errors.New("database.path is required for the sqlite driver")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Environment lookup errors. Credentials never live in the YAML file.
var (
	ErrMissingAPIKey  = errors.New("RENTCAST_API_KEY environment variable is required")
	ErrMissingBaseURL = errors.New("RENTCAST_BASE_URL environment variable is required")
	ErrMissingDSN     = errors.New("PG_DSN environment variable is required")
)

// Config represents the complete pipeline configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PipelineConfig sets the artifact directories.
type PipelineConfig struct {
	RawDir         string `yaml:"raw_dir"`
	TransformedDir string `yaml:"transformed_dir"`
}

// HTTPConfig contains HTTP client settings.
type HTTPConfig struct {
	TimeoutSec int `yaml:"timeout_sec"`
}

// Timeout returns the client timeout duration.
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSec) * time.Second
}

// DatabaseConfig selects the destination database.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Table  string `yaml:"table"`
	Path   string `yaml:"path"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// APIConfig carries the listings API credentials. Both fields are sourced
// from the environment, never from the YAML file.
type APIConfig struct {
	BaseURL string
	Key     string
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			RawDir:         "data/raw",
			TransformedDir: "data/transformed",
		},
		HTTP: HTTPConfig{
			TimeoutSec: 30,
		},
		Database: DatabaseConfig{
			Driver: "postgres",
			Table:  "properties_data",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file. Omitted fields keep their
// defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Pipeline.RawDir == "" {
		return ErrMissingRawDir
	}

	if c.Pipeline.TransformedDir == "" {
		return ErrMissingTransformedDir
	}

	if c.HTTP.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	switch c.Database.Driver {
	case "postgres":
	case "sqlite":
		if c.Database.Path == "" {
			return ErrMissingSQLitePath
		}
	default:
		return fmt.Errorf("%w, got %q", ErrInvalidDriver, c.Database.Driver)
	}

	if c.Database.Table == "" {
		return ErrMissingTable
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// APIFromEnv reads the listings API credentials from the environment.
func APIFromEnv() (APIConfig, error) {
	key := os.Getenv("RENTCAST_API_KEY")
	if key == "" {
		return APIConfig{}, ErrMissingAPIKey
	}

	baseURL := os.Getenv("RENTCAST_BASE_URL")
	if baseURL == "" {
		return APIConfig{}, ErrMissingBaseURL
	}

	return APIConfig{BaseURL: baseURL, Key: key}, nil
}

// DSN returns the connection string for the configured driver. The postgres
// driver requires PG_DSN in the environment; sqlite uses the configured file
// path.
func (c *Config) DSN() (string, error) {
	switch c.Database.Driver {
	case "postgres":
		dsn := os.Getenv("PG_DSN")
		if dsn == "" {
			return "", ErrMissingDSN
		}

		return dsn, nil
	case "sqlite":
		return c.Database.Path, nil
	default:
		return "", fmt.Errorf("%w, got %q", ErrInvalidDriver, c.Database.Driver)
	}
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Driver: %s, Table: %s, RawDir: %s}",
		c.Database.Driver,
		c.Database.Table,
		c.Pipeline.RawDir,
	)
}
