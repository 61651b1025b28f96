// Package di provides dependency injection for service implementations.
package di

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/spacedash/internal/cache"
	"github.com/aristath/spacedash/internal/clients/spacex"
	"github.com/aristath/spacedash/internal/config"
	"github.com/aristath/spacedash/internal/ratelimit"
	"github.com/aristath/spacedash/internal/services"
)

// InitializeServices creates the upstream client, the response cache and the data service
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	container.SpaceXClient = spacex.NewClient(spacex.Config{
		BaseURL:      cfg.Upstream.BaseURL,
		Timeout:      cfg.Upstream.Timeout,
		MaxAttempts:  cfg.Upstream.MaxAttempts,
		RetryWait:    cfg.Upstream.RetryWait,
		RetryMaxWait: cfg.Upstream.RetryMaxWait,
	}, log)

	cacheLog := log.With().Str("component", "cache").Logger()
	container.PayloadCache = cache.New[spacex.Payload](
		cfg.Cache.Capacity,
		cfg.Cache.TTL,
		cache.WithEvictionCallback(func(key string) {
			cacheLog.Debug().Str("key", key).Msg("Evicted least recently used entry")
		}),
	)

	opts := []services.Option{services.WithFetchRecorder(container.FetchRepo)}
	if cfg.Upstream.SingleFlight {
		attempts := time.Duration(container.SpaceXClient.MaxAttempts())
		opts = append(opts,
			services.WithSingleFlight(),
			services.WithFlightTimeout(attempts*(cfg.Upstream.Timeout+cfg.Upstream.RetryMaxWait)),
		)
	}
	container.DataService = services.NewSpaceXDataService(
		container.SpaceXClient,
		container.PayloadCache,
		log,
		opts...,
	)

	container.RateLimiter = ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst, log)

	log.Info().
		Str("upstream", container.SpaceXClient.BaseURL()).
		Int("max_attempts", container.SpaceXClient.MaxAttempts()).
		Dur("cache_ttl", cfg.Cache.TTL).
		Int("cache_capacity", cfg.Cache.Capacity).
		Bool("single_flight", cfg.Upstream.SingleFlight).
		Msg("Services initialized")

	return nil
}
