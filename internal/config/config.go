// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/spacedash/internal/utils"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Directory holding the fetch history database (always absolute)
	LogLevel string
	Port     int
	DevMode  bool
	Upstream UpstreamConfig
	Cache    CacheConfig

	RateLimitRPS   float64
	RateLimitBurst int

	FetchHistoryRetention time.Duration
	CORSAllowedOrigins    []string
}

// UpstreamConfig controls how the SpaceX API is reached
type UpstreamConfig struct {
	BaseURL      string
	Timeout      time.Duration // Per attempt
	MaxAttempts  int           // Total attempts including the first one
	RetryWait    time.Duration // Base of the exponential backoff
	RetryMaxWait time.Duration // Cap of the exponential backoff
	SingleFlight bool          // Collapse concurrent misses for the same endpoint
}

// CacheConfig controls the in-memory response cache
type CacheConfig struct {
	TTL      time.Duration
	Capacity int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("PORT", 8000),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Upstream: UpstreamConfig{
			BaseURL:      strings.TrimRight(getEnv("UPSTREAM_BASE_URL", "https://api.spacexdata.com/v4"), "/"),
			Timeout:      getEnvAsDuration("UPSTREAM_TIMEOUT", 10*time.Second),
			MaxAttempts:  getEnvAsInt("UPSTREAM_MAX_ATTEMPTS", 3),
			RetryWait:    getEnvAsDuration("UPSTREAM_RETRY_WAIT", time.Second),
			RetryMaxWait: getEnvAsDuration("UPSTREAM_RETRY_MAX_WAIT", 10*time.Second),
			SingleFlight: getEnvAsBool("UPSTREAM_SINGLE_FLIGHT", false),
		},
		Cache: CacheConfig{
			TTL:      getEnvAsDuration("CACHE_TTL", 300*time.Second),
			Capacity: getEnvAsInt("CACHE_CAPACITY", 100),
		},
		RateLimitRPS:          getEnvAsFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:        getEnvAsInt("RATE_LIMIT_BURST", 40),
		FetchHistoryRetention: getEnvAsDuration("FETCH_HISTORY_RETENTION", 7*24*time.Hour),
		CORSAllowedOrigins:    utils.ParseCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration can drive the service
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL must not be empty")
	}
	if c.Upstream.MaxAttempts < 1 {
		return fmt.Errorf("UPSTREAM_MAX_ATTEMPTS must be at least 1, got %d", c.Upstream.MaxAttempts)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.Upstream.Timeout)
	}
	if c.Upstream.RetryWait <= 0 {
		return fmt.Errorf("UPSTREAM_RETRY_WAIT must be positive, got %s", c.Upstream.RetryWait)
	}
	if c.Upstream.RetryWait > c.Upstream.RetryMaxWait {
		return fmt.Errorf("UPSTREAM_RETRY_WAIT (%s) exceeds UPSTREAM_RETRY_MAX_WAIT (%s)",
			c.Upstream.RetryWait, c.Upstream.RetryMaxWait)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.Cache.TTL)
	}
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("CACHE_CAPACITY must be at least 1, got %d", c.Cache.Capacity)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("10s") or a bare number of seconds ("300")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
