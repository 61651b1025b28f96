package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/spacedash/internal/cache"
	"github.com/aristath/spacedash/internal/clients/spacex"
	"github.com/aristath/spacedash/internal/domain"
	"github.com/aristath/spacedash/internal/fetchlog"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ErrUnknownEndpoint is returned for resources the upstream client does not serve
var ErrUnknownEndpoint = errors.New("unknown endpoint")

// UpstreamFetcher is the subset of the SpaceX client the data service needs
type UpstreamFetcher interface {
	Fetch(ctx context.Context, endpoint string) (*spacex.Result, error)
}

// FetchRecorder persists metadata about upstream calls
type FetchRecorder interface {
	Record(ctx context.Context, f fetchlog.Fetch) error
}

// Option configures a SpaceXDataService
type Option func(*SpaceXDataService)

// WithFetchRecorder records every upstream call (cache hits excluded)
func WithFetchRecorder(recorder FetchRecorder) Option {
	return func(s *SpaceXDataService) {
		s.recorder = recorder
	}
}

// WithSingleFlight collapses concurrent misses for the same endpoint into one upstream call
func WithSingleFlight() Option {
	return func(s *SpaceXDataService) {
		s.group = &singleflight.Group{}
	}
}

// WithFlightTimeout bounds a shared fetch, which no longer follows a caller's deadline
func WithFlightTimeout(d time.Duration) Option {
	return func(s *SpaceXDataService) {
		if d > 0 {
			s.flightTimeout = d
		}
	}
}

// SpaceXDataService is the cache-first entry point to SpaceX data used by every route handler
type SpaceXDataService struct {
	client        UpstreamFetcher
	cache         *cache.Cache[spacex.Payload]
	recorder      FetchRecorder
	group         *singleflight.Group // nil unless WithSingleFlight
	flightTimeout time.Duration
	endpoints     map[string]bool
	log           zerolog.Logger
}

// defaultFlightTimeout covers three 10s attempts plus backoff
const defaultFlightTimeout = time.Minute

// NewSpaceXDataService creates a new data service
func NewSpaceXDataService(
	client UpstreamFetcher,
	payloadCache *cache.Cache[spacex.Payload],
	log zerolog.Logger,
	opts ...Option,
) *SpaceXDataService {
	s := &SpaceXDataService{
		client:        client,
		cache:         payloadCache,
		flightTimeout: defaultFlightTimeout,
		endpoints:     make(map[string]bool, len(spacex.Endpoints)),
		log:           log.With().Str("service", "spacex_data").Logger(),
	}
	for _, e := range spacex.Endpoints {
		s.endpoints[e] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetData returns the records of an upstream resource, from cache when fresh.
// The returned slice is a copy; the raw records it holds must not be modified.
func (s *SpaceXDataService) GetData(ctx context.Context, endpoint string) (spacex.Payload, error) {
	if !s.endpoints[endpoint] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEndpoint, endpoint)
	}

	if payload, ok := s.cache.Get(endpoint); ok {
		s.log.Debug().Str("endpoint", endpoint).Msg("Cache hit")
		return clonePayload(payload), nil
	}

	var (
		payload spacex.Payload
		err     error
	)
	if s.group != nil {
		payload, err = s.fetchShared(ctx, endpoint)
	} else {
		payload, err = s.fetchAndStore(ctx, endpoint)
	}
	if err != nil {
		return nil, err
	}

	return clonePayload(payload), nil
}

// fetchShared joins or starts the single flight for endpoint. The flight runs
// detached from any one caller so a cancelled caller does not fail the others;
// each caller still stops waiting when its own ctx ends.
func (s *SpaceXDataService) fetchShared(ctx context.Context, endpoint string) (spacex.Payload, error) {
	ch := s.group.DoChan(endpoint, func() (interface{}, error) {
		// A flight that finished between our miss and DoChan has already filled the cache
		if cached, ok := s.cache.Peek(endpoint); ok {
			return cached, nil
		}
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.flightTimeout)
		defer cancel()
		return s.fetchAndStore(flightCtx, endpoint)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, ctx.Err())
	case res := <-ch:
		if res.Shared {
			s.log.Debug().Str("endpoint", endpoint).Msg("Joined in-flight fetch")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(spacex.Payload), nil
	}
}

func (s *SpaceXDataService) fetchAndStore(ctx context.Context, endpoint string) (spacex.Payload, error) {
	start := time.Now()
	result, err := s.client.Fetch(ctx, endpoint)
	elapsed := time.Since(start)

	s.recordFetch(ctx, endpoint, result, err, elapsed)

	if err != nil {
		s.log.Error().Err(err).Str("endpoint", endpoint).Msg("Upstream fetch failed")
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}

	s.cache.Put(endpoint, result.Records)

	s.log.Info().
		Str("endpoint", endpoint).
		Int("records", len(result.Records)).
		Int("attempts", result.Attempts).
		Dur("duration", elapsed).
		Msg("Cached upstream data")

	return result.Records, nil
}

func (s *SpaceXDataService) recordFetch(ctx context.Context, endpoint string, result *spacex.Result, fetchErr error, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}

	f := fetchlog.Fetch{
		Endpoint:   endpoint,
		Attempts:   1,
		Success:    fetchErr == nil,
		DurationMs: elapsed.Milliseconds(),
	}
	if result != nil {
		f.Attempts = result.Attempts
		f.StatusCode = result.StatusCode
		f.Records = len(result.Records)
	}
	if fetchErr != nil {
		f.Error = fetchErr.Error()
		var upErr *spacex.UpstreamError
		if errors.As(fetchErr, &upErr) {
			f.Attempts = upErr.Attempts
			f.StatusCode = upErr.StatusCode
		}
	}

	// The request may already be cancelled; the history row should still be written
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := s.recorder.Record(recordCtx, f); err != nil {
		s.log.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to record upstream fetch")
	}
}

// GetRockets returns all rockets, decoded fresh on every call
func (s *SpaceXDataService) GetRockets(ctx context.Context) ([]domain.Rocket, error) {
	return getTyped[domain.Rocket](ctx, s, spacex.EndpointRockets)
}

// GetLaunches returns all launches, decoded fresh on every call
func (s *SpaceXDataService) GetLaunches(ctx context.Context) ([]domain.Launch, error) {
	return getTyped[domain.Launch](ctx, s, spacex.EndpointLaunches)
}

// GetStarlink returns all Starlink satellites, decoded fresh on every call
func (s *SpaceXDataService) GetStarlink(ctx context.Context) ([]domain.StarlinkSatellite, error) {
	return getTyped[domain.StarlinkSatellite](ctx, s, spacex.EndpointStarlink)
}

// CacheStats returns the payload cache counters
func (s *SpaceXDataService) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// ClearCache drops every cached payload and returns how many were dropped
func (s *SpaceXDataService) ClearCache() int {
	n := s.cache.Clear()
	s.log.Info().Int("cleared", n).Msg("Cache cleared")
	return n
}

func getTyped[T any](ctx context.Context, s *SpaceXDataService, endpoint string) ([]T, error) {
	payload, err := s.GetData(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	records := make([]T, 0, len(payload))
	for i, raw := range payload {
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("failed to decode %s record %d: %w", endpoint, i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func clonePayload(p spacex.Payload) spacex.Payload {
	return append(spacex.Payload(nil), p...)
}
