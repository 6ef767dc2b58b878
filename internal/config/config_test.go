package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.DatabasePath != "./data/showgap.db" {
		t.Errorf("expected default database path, got %s", cfg.DatabasePath)
	}
	if cfg.Country != "US" {
		t.Errorf("expected default country US, got %s", cfg.Country)
	}
	if cfg.HorizonDays != 180 {
		t.Errorf("expected default horizon 180, got %d", cfg.HorizonDays)
	}
	if cfg.GraceDays != 30 {
		t.Errorf("expected default grace days 30, got %d", cfg.GraceDays)
	}
	if cfg.MaxWorkers != 8 {
		t.Errorf("expected default max workers 8, got %d", cfg.MaxWorkers)
	}
	if cfg.RefreshInterval != time.Hour {
		t.Errorf("expected default refresh interval 1h, got %s", cfg.RefreshInterval)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.SeedDemoData {
		t.Error("expected seed demo data to default to false")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TMDB_READ_TOKEN", "test-token")
	t.Setenv("DATABASE_PATH", "/tmp/other.db")
	t.Setenv("COUNTRY", "GB")
	t.Setenv("HORIZON_DAYS", "90")
	t.Setenv("REFRESH_INTERVAL", "30m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.DatabasePath != "/tmp/other.db" {
		t.Errorf("expected overridden database path, got %s", cfg.DatabasePath)
	}
	if cfg.Country != "GB" {
		t.Errorf("expected country GB, got %s", cfg.Country)
	}
	if cfg.HorizonDays != 90 {
		t.Errorf("expected horizon 90, got %d", cfg.HorizonDays)
	}
	if cfg.RefreshInterval != 30*time.Minute {
		t.Errorf("expected refresh interval 30m, got %s", cfg.RefreshInterval)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.LogLevel)
	}
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("TMDB_READ_TOKEN", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when no catalog credentials are set")
	}
	if !strings.Contains(err.Error(), "TMDB_API_KEY") {
		t.Errorf("expected credential error, got %v", err)
	}
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative horizon", func(c *Config) { c.HorizonDays = -1 }},
		{"zero grace days", func(c *Config) { c.GraceDays = 0 }},
		{"zero workers", func(c *Config) { c.MaxWorkers = 0 }},
		{"zero refresh interval", func(c *Config) { c.RefreshInterval = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "shout" }},
		{"empty database path", func(c *Config) { c.DatabasePath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DatabasePath:    "./data/showgap.db",
				TMDBAPIKey:      "key",
				Country:         "US",
				HorizonDays:     180,
				GraceDays:       30,
				MaxWorkers:      8,
				RefreshInterval: time.Hour,
				LogLevel:        "info",
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret(""); got != "[not set]" {
		t.Errorf("expected [not set], got %s", got)
	}
	if got := maskSecret("abc"); got != "****" {
		t.Errorf("expected ****, got %s", got)
	}
	if got := maskSecret("abcdefgh"); got != "abcd****" {
		t.Errorf("expected abcd****, got %s", got)
	}
}
