package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Backends
	MarketsAPIURL string
	NewsAPIURL    string

	// Session
	UserID string

	// Fetch scheduling
	EagerFetchLimit  int           // number of questions hydrated eagerly on load
	FetchConcurrency int           // parallel trade-history fetches in a batch
	RequestTimeout   time.Duration // per-request timeout on backend calls

	// Sync
	SyncPollInterval time.Duration // background reconciliation interval, 0 disables
	TradesCacheTTL   time.Duration // TTL for cached trade-history responses
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		MarketsAPIURL: getEnvOrDefault("MARKETS_API_URL", "http://localhost:8000"),
		NewsAPIURL:    getEnvOrDefault("NEWS_API_URL", "http://localhost:8001"),

		UserID: os.Getenv("USER_ID"),

		EagerFetchLimit:  getIntOrDefault("EAGER_FETCH_LIMIT", 10),
		FetchConcurrency: getIntOrDefault("FETCH_CONCURRENCY", 8),
		RequestTimeout:   getDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),

		SyncPollInterval: getDurationOrDefault("SYNC_POLL_INTERVAL", 0),
		TradesCacheTTL:   getDurationOrDefault("TRADES_CACHE_TTL", 30*time.Second),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.MarketsAPIURL == "" {
		return fmt.Errorf("MARKETS_API_URL cannot be empty")
	}

	if c.NewsAPIURL == "" {
		return fmt.Errorf("NEWS_API_URL cannot be empty")
	}

	if c.EagerFetchLimit < 0 {
		return fmt.Errorf("EAGER_FETCH_LIMIT must be >= 0, got %d", c.EagerFetchLimit)
	}

	if c.FetchConcurrency < 1 {
		return fmt.Errorf("FETCH_CONCURRENCY must be >= 1, got %d", c.FetchConcurrency)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
