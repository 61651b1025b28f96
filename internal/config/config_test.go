package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://api.spacexdata.com/v4", cfg.Upstream.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 3, cfg.Upstream.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Upstream.RetryWait)
	assert.Equal(t, 10*time.Second, cfg.Upstream.RetryMaxWait)
	assert.False(t, cfg.Upstream.SingleFlight)
	assert.Equal(t, 300*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 100, cfg.Cache.Capacity)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, len(cfg.DataDir) > 0 && cfg.DataDir[0] == '/', "data dir should be absolute")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9100")
	t.Setenv("UPSTREAM_BASE_URL", "http://localhost:1234/v4/")
	t.Setenv("UPSTREAM_TIMEOUT", "2s")
	t.Setenv("CACHE_TTL", "60")
	t.Setenv("CACHE_CAPACITY", "5")
	t.Setenv("UPSTREAM_SINGLE_FLIGHT", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "http://localhost:1234/v4", cfg.Upstream.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.Cache.Capacity)
	assert.True(t, cfg.Upstream.SingleFlight)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("PORT", "not-a-port")
	t.Setenv("CACHE_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 300*time.Second, cfg.Cache.TTL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port: 8000,
			Upstream: UpstreamConfig{
				BaseURL:      "https://api.spacexdata.com/v4",
				Timeout:      10 * time.Second,
				MaxAttempts:  3,
				RetryWait:    time.Second,
				RetryMaxWait: 10 * time.Second,
			},
			Cache: CacheConfig{TTL: 300 * time.Second, Capacity: 100},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty base url", func(c *Config) { c.Upstream.BaseURL = "" }, "UPSTREAM_BASE_URL"},
		{"zero attempts", func(c *Config) { c.Upstream.MaxAttempts = 0 }, "UPSTREAM_MAX_ATTEMPTS"},
		{"zero timeout", func(c *Config) { c.Upstream.Timeout = 0 }, "UPSTREAM_TIMEOUT"},
		{"wait above cap", func(c *Config) { c.Upstream.RetryWait = time.Minute }, "UPSTREAM_RETRY_WAIT"},
		{"zero wait", func(c *Config) { c.Upstream.RetryWait = 0 }, "UPSTREAM_RETRY_WAIT"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "CACHE_TTL"},
		{"zero capacity", func(c *Config) { c.Cache.Capacity = 0 }, "CACHE_CAPACITY"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
