package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/spacedash/internal/config"
	"github.com/aristath/spacedash/internal/di"
)

const (
	rocketsBody  = `[{"id":"r1","name":"Falcon 1","active":false,"success_rate_pct":40},{"id":"r2","name":"Falcon 9","active":true,"success_rate_pct":98}]`
	launchesBody = `[{"id":"l1","name":"FalconSat","date_utc":"2006-03-24T22:30:00.000Z","success":false,"upcoming":false},{"id":"l2","name":"Crew-1","date_utc":"2020-11-16T00:27:00.000Z","success":true,"upcoming":false}]`
	starlinkBody = `[{"id":"s1","height_km":550,"velocity_kms":7.6,"spaceTrack":{"OBJECT_NAME":"STARLINK-1","INCLINATION":53,"DECAY_DATE":null}},{"id":"s2","height_km":350,"velocity_kms":7.8,"spaceTrack":{"OBJECT_NAME":"STARLINK-2","INCLINATION":53.2,"DECAY_DATE":"2021-06-01"}}]`
)

type upstreamStub struct {
	server *httptest.Server
	hits   int32
	status int32
}

func newUpstreamStub(t *testing.T) *upstreamStub {
	t.Helper()
	stub := &upstreamStub{status: http.StatusOK}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&stub.hits, 1)
		if status := int(atomic.LoadInt32(&stub.status)); status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/rockets":
			_, _ = w.Write([]byte(rocketsBody))
		case "/launches":
			_, _ = w.Write([]byte(launchesBody))
		case "/starlink":
			_, _ = w.Write([]byte(starlinkBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (u *upstreamStub) fail(status int) {
	atomic.StoreInt32(&u.status, int32(status))
}

func (u *upstreamStub) count() int32 {
	return atomic.LoadInt32(&u.hits)
}

func newTestServer(t *testing.T, upstreamURL string, mutate ...func(*config.Config)) *Server {
	t.Helper()

	cfg := &config.Config{
		DataDir: t.TempDir(),
		Port:    8000,
		DevMode: true,
		Upstream: config.UpstreamConfig{
			BaseURL:      upstreamURL,
			Timeout:      2 * time.Second,
			MaxAttempts:  3,
			RetryWait:    time.Millisecond,
			RetryMaxWait: 5 * time.Millisecond,
		},
		Cache: config.CacheConfig{
			TTL:      time.Minute,
			Capacity: 10,
		},
		RateLimitRPS:          1000,
		RateLimitBurst:        1000,
		FetchHistoryRetention: time.Hour,
		CORSAllowedOrigins:    []string{"*"},
	}
	for _, m := range mutate {
		m(cfg)
	}

	log := zerolog.New(nil).Level(zerolog.Disabled)
	container, _, err := di.Wire(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	return New(Config{Log: log, Config: cfg, Container: container, Version: "test"})
}

func do(t *testing.T, s *Server, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "192.0.2.1:1234"
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestRootAndHealth(t *testing.T) {
	stub := newUpstreamStub(t)
	s := newTestServer(t, stub.server.URL)

	rec := do(t, s, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SpaceX dashboard API running", decode(t, rec)["message"])

	rec = do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "spacedash", body["service"])
	assert.Equal(t, "test", body["version"])

	assert.Equal(t, int32(0), stub.count())
}

func TestRockets_ServedFromCacheOnSecondCall(t *testing.T) {
	stub := newUpstreamStub(t)
	s := newTestServer(t, stub.server.URL)

	rec := do(t, s, http.MethodGet, "/api/rockets?active=true", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Falcon 9", data[0].(map[string]interface{})["name"])

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["total"])

	rec = do(t, s, http.MethodGet, "/api/rockets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 2)

	assert.Equal(t, int32(1), stub.count())
}

func TestDashboard(t *testing.T) {
	stub := newUpstreamStub(t)
	s := newTestServer(t, stub.server.URL)

	rec := do(t, s, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	rockets := body["rockets"].(map[string]interface{})
	assert.Equal(t, float64(2), rockets["total"])
	assert.Equal(t, float64(1), rockets["active"])

	starlink := body["starlink"].(map[string]interface{})
	assert.Equal(t, float64(2), starlink["total"])
	assert.Equal(t, float64(1), starlink["deployed"])

	assert.Equal(t, int32(3), stub.count())
}

func TestDashboard_UpstreamUnavailable(t *testing.T) {
	stub := newUpstreamStub(t)
	stub.fail(http.StatusServiceUnavailable)
	s := newTestServer(t, stub.server.URL)

	rec := do(t, s, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "503")
}

func TestLaunches_BadQuery(t *testing.T) {
	stub := newUpstreamStub(t)
	s := newTestServer(t, stub.server.URL)

	rec := do(t, s, http.MethodGet, "/api/launches?year=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "year")
	assert.Equal(t, int32(0), stub.count())
}

func TestMsgpackNegotiation(t *testing.T) {
	stub := newUpstreamStub(t)
	s := newTestServer(t, stub.server.URL)

	rec := do(t, s, http.MethodGet, "/health", map[string]string{"Accept": "application/msgpack"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/msgpack", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestNotFoundIsJSON(t *testing.T) {
	stub := newUpstreamStub(t)
	s := newTestServer(t, stub.server.URL)

	rec := do(t, s, http.MethodGet, "/api/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode(t, rec)["error"])

	rec = do(t, s, http.MethodPost, "/api/rockets", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRateLimit(t *testing.T) {
	stub := newUpstreamStub(t)
	s := newTestServer(t, stub.server.URL, func(cfg *config.Config) {
		cfg.RateLimitRPS = 0.001
		cfg.RateLimitBurst = 2
	})

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", nil).Code)

	rec := do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded", decode(t, rec)["error"])
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestCORSPreflight(t *testing.T) {
	stub := newUpstreamStub(t)
	s := newTestServer(t, stub.server.URL)

	rec := do(t, s, http.MethodOptions, "/api/rockets", map[string]string{
		"Origin":                        "https://example.com",
		"Access-Control-Request-Method": "GET",
	})
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}
