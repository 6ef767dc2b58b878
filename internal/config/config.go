// Package config loads application configuration from environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// Config holds all application configuration loaded from environment variables
type Config struct {
	// Database configuration
	DatabasePath string `envconfig:"DATABASE_PATH" default:"./data/showgap.db"`

	// Catalog source credentials. The API key drives the v3 query-param
	// auth; the read token, when set, is preferred and sent as a bearer.
	TMDBAPIKey    string `envconfig:"TMDB_API_KEY"`
	TMDBReadToken string `envconfig:"TMDB_READ_TOKEN"`

	// Planning defaults
	Country     string `envconfig:"COUNTRY" default:"US"`
	HorizonDays int    `envconfig:"HORIZON_DAYS" default:"180"`
	GraceDays   int    `envconfig:"GRACE_DAYS" default:"30"`
	MaxWorkers  int    `envconfig:"MAX_WORKERS" default:"8"`

	// Background refresh of popular catalog entries
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"1h"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Seed a demo user on startup when the store is empty
	SeedDemoData bool `envconfig:"SEED_DEMO_DATA" default:"false"`
}

// Load reads configuration from environment variables and returns a Config instance
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that all required configuration values are present and valid
func (c *Config) Validate() error {
	if c.TMDBAPIKey == "" && c.TMDBReadToken == "" {
		return fmt.Errorf("TMDB_API_KEY or TMDB_READ_TOKEN environment variable is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH cannot be empty")
	}
	if c.HorizonDays <= 0 {
		return fmt.Errorf("HORIZON_DAYS must be positive, got %d", c.HorizonDays)
	}
	if c.GraceDays <= 0 {
		return fmt.Errorf("GRACE_DAYS must be positive, got %d", c.GraceDays)
	}
	if c.MaxWorkers <= 0 {
		return fmt.Errorf("MAX_WORKERS must be positive, got %d", c.MaxWorkers)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive, got %s", c.RefreshInterval)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return nil
}

// LogConfiguration logs all loaded configuration values, excluding secrets
func (c *Config) LogConfiguration(logger zerolog.Logger) {
	logger.Info().
		Str("database_path", c.DatabasePath).
		Str("tmdb_api_key", maskSecret(c.TMDBAPIKey)).
		Str("tmdb_read_token", maskSecret(c.TMDBReadToken)).
		Str("country", c.Country).
		Int("horizon_days", c.HorizonDays).
		Int("grace_days", c.GraceDays).
		Int("max_workers", c.MaxWorkers).
		Dur("refresh_interval", c.RefreshInterval).
		Str("log_level", c.LogLevel).
		Bool("seed_demo_data", c.SeedDemoData).
		Msg("configuration loaded")
}

// maskSecret masks a secret string for logging, showing only first 4 characters
func maskSecret(secret string) string {
	if secret == "" {
		return "[not set]"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}
