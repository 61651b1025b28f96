// Package spacex provides a client for the public SpaceX v4 REST API.
// Every resource is fetched as a whole JSON array; the client retries failed
// attempts with capped exponential backoff before giving up.
package spacex

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://api.spacexdata.com/v4"
	userAgent      = "github.com/aristath/spacedash"
)

// Upstream resources
const (
	EndpointRockets  = "rockets"
	EndpointLaunches = "launches"
	EndpointStarlink = "starlink"
)

// Endpoints lists every resource the client is allowed to fetch.
var Endpoints = []string{EndpointRockets, EndpointLaunches, EndpointStarlink}

// Payload is one upstream response: a sequence of opaque JSON records.
type Payload []json.RawMessage

// Config controls timeouts and the retry policy
type Config struct {
	BaseURL      string
	Timeout      time.Duration // Per attempt
	MaxAttempts  int           // Total attempts, including the first
	RetryWait    time.Duration // Backoff base
	RetryMaxWait time.Duration // Backoff cap
}

// DefaultConfig returns 10s per attempt, 3 attempts, 1s base and 10s cap.
func DefaultConfig() Config {
	return Config{
		BaseURL:      defaultBaseURL,
		Timeout:      10 * time.Second,
		MaxAttempts:  3,
		RetryWait:    time.Second,
		RetryMaxWait: 10 * time.Second,
	}
}

// Result is a successful fetch together with how it was obtained
type Result struct {
	Records    Payload
	StatusCode int
	Attempts   int
	Duration   time.Duration
}

// Client is the SpaceX API client.
type Client struct {
	baseURL     string
	maxAttempts int
	http        *resty.Client
	log         zerolog.Logger
}

// NewClient creates a new SpaceX API client. Zero values in cfg fall back to DefaultConfig.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	// resty draws jitter from the wait time, which must stay positive
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = def.RetryWait
	}
	if cfg.RetryMaxWait < cfg.RetryWait {
		cfg.RetryMaxWait = cfg.RetryWait
	}

	l := log.With().Str("client", "spacex-api").Logger()

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxAttempts-1).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetLogger(restyLogger{log: l}).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r != nil && !r.IsSuccess()
		}).
		AddRetryHook(func(r *resty.Response, err error) {
			event := l.Warn()
			if r != nil {
				event = event.Int("attempt", r.Request.Attempt).Int("status", r.StatusCode())
			}
			if err != nil {
				event = event.Err(err)
			}
			event.Msg("Upstream attempt failed")
		})

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		maxAttempts: cfg.MaxAttempts,
		http:        httpClient,
		log:         l,
	}
}

// BaseURL returns the upstream base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// MaxAttempts returns the total attempt budget per fetch
func (c *Client) MaxAttempts() int {
	return c.maxAttempts
}

// Fetch performs GET {base}/{endpoint} and decodes the JSON array it returns.
// All failures are reported as *UpstreamError.
func (c *Client) Fetch(ctx context.Context, endpoint string) (*Result, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(endpoint, "/"))
	c.log.Debug().Str("url", url).Msg("Fetching")

	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(url)
	elapsed := time.Since(start)

	attempts := 1
	if resp != nil && resp.Request != nil && resp.Request.Attempt > 0 {
		attempts = resp.Request.Attempt
	}

	if err != nil {
		return nil, &UpstreamError{
			Kind:     KindConnection,
			Endpoint: endpoint,
			Attempts: attempts,
			Err:      err,
		}
	}

	if !resp.IsSuccess() {
		return nil, &UpstreamError{
			Kind:       KindHTTP,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode(),
			Attempts:   attempts,
			Err:        fmt.Errorf("unexpected status %s", resp.Status()),
		}
	}

	var records Payload
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, &UpstreamError{
			Kind:       KindDecode,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode(),
			Attempts:   attempts,
			Err:        err,
		}
	}

	c.log.Debug().
		Str("endpoint", endpoint).
		Int("records", len(records)).
		Int("attempts", attempts).
		Dur("duration", elapsed).
		Msg("Fetched")

	return &Result{
		Records:    records,
		StatusCode: resp.StatusCode(),
		Attempts:   attempts,
		Duration:   elapsed,
	}, nil
}
