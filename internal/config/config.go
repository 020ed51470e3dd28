// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the untis endpoint, server mode, timeouts and cache settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// WebUntis endpoint
	UntisHost  string // Monitor host, e.g. "ikarus.webuntis.com"
	SchoolName string // School login name, e.g. "hh5847"
	FormatName string // Substitution format name, e.g. "Vertretung Netz"

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir  string        // Data directory for the SQLite archive
	CacheTTL time.Duration // TTL for normalized plans in the in-process cache

	// Fetch Configuration
	FetchTimeout    time.Duration // Per-request timeout for the untis transport
	RefreshInterval time.Duration // Background archive refresh interval (0 = disabled)
	MaxPlansPerRequest int        // Upper bound for the count parameter of the plans endpoint

	// Sentry (optional)
	SentryDSN         string
	SentryEnvironment string

	// Better Stack (optional)
	BetterStackToken    string
	BetterStackEndpoint string

	// Metrics endpoint Basic Auth (empty password = no auth)
	MetricsUsername string
	MetricsPassword string
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		UntisHost:  getEnv("UNTIS_HOST", "ikarus.webuntis.com"),
		SchoolName: getEnv("UNTIS_SCHOOL", ""),
		FormatName: getEnv("UNTIS_FORMAT", "Vertretung Netz"),

		Port:            getEnv("PORT", "10000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),

		DataDir:  getEnv("DATA_DIR", "data"),
		CacheTTL: getDurationEnv("CACHE_TTL", 5*time.Minute),

		FetchTimeout:       getDurationEnv("FETCH_TIMEOUT", 30*time.Second),
		RefreshInterval:    getDurationEnv("REFRESH_INTERVAL", 15*time.Minute),
		MaxPlansPerRequest: getIntEnv("MAX_PLANS_PER_REQUEST", 10),

		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "production"),

		BetterStackToken:    getEnv("BETTERSTACK_TOKEN", ""),
		BetterStackEndpoint: getEnv("BETTERSTACK_ENDPOINT", ""),

		MetricsUsername: getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present and sane.
func (c *Config) Validate() error {
	if c.SchoolName == "" {
		return errors.New("UNTIS_SCHOOL is required")
	}
	if c.FormatName == "" {
		return errors.New("UNTIS_FORMAT must not be empty")
	}
	if c.UntisHost == "" {
		return errors.New("UNTIS_HOST must not be empty")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %v", c.FetchTimeout)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %v", c.CacheTTL)
	}
	if c.MaxPlansPerRequest < 1 {
		return fmt.Errorf("MAX_PLANS_PER_REQUEST must be at least 1, got %d", c.MaxPlansPerRequest)
	}
	return nil
}

// SQLitePath returns the full path to the SQLite archive database
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "plans.db")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
