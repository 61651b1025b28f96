package spacex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:      baseURL,
		Timeout:      2 * time.Second,
		MaxAttempts:  3,
		RetryWait:    time.Millisecond,
		RetryMaxWait: 5 * time.Millisecond,
	}
}

// flakyServer fails the first `failures` requests with `status`, then serves body
func flakyServer(t *testing.T, failures int, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		if int(n) <= failures {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"unavailable"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{}, zerolog.Nop())
	assert.Equal(t, defaultBaseURL, client.BaseURL())
	assert.Equal(t, 3, client.MaxAttempts())
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rockets", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"a","name":"Falcon 1"},{"id":"b","name":"Falcon 9"}]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL+"/"), zerolog.Nop())

	result, err := client.Fetch(context.Background(), EndpointRockets)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.JSONEq(t, `{"id":"a","name":"Falcon 1"}`, string(result.Records[0]))
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, 1, result.Attempts)
}

func TestFetch_RetryAttempts(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		wantHits     int32
		wantErr      bool
		wantAttempts int
	}{
		{"no failures", 0, 1, false, 1},
		{"one failure", 1, 2, false, 2},
		{"two failures", 2, 3, false, 3},
		{"exhausted", 5, 3, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, hits := flakyServer(t, tt.failures, http.StatusServiceUnavailable, `[]`)
			client := NewClient(testConfig(server.URL), zerolog.Nop())

			result, err := client.Fetch(context.Background(), EndpointLaunches)

			assert.Equal(t, tt.wantHits, atomic.LoadInt32(hits))
			if tt.wantErr {
				require.Error(t, err)
				var upErr *UpstreamError
				require.ErrorAs(t, err, &upErr)
				assert.Equal(t, tt.wantAttempts, upErr.Attempts)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAttempts, result.Attempts)
		})
	}
}

func TestFetch_HTTPErrorAfterAllAttempts(t *testing.T) {
	server, hits := flakyServer(t, 100, http.StatusServiceUnavailable, `[]`)
	client := NewClient(testConfig(server.URL), zerolog.Nop())

	_, err := client.Fetch(context.Background(), EndpointStarlink)
	require.Error(t, err)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, KindHTTP, upErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, upErr.StatusCode)
	assert.Equal(t, EndpointStarlink, upErr.Endpoint)
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
	assert.Contains(t, err.Error(), "503")
	assert.True(t, IsHTTPStatus(err, http.StatusServiceUnavailable))
}

func TestFetch_ClientErrorsAreRetriedToo(t *testing.T) {
	server, hits := flakyServer(t, 100, http.StatusNotFound, `[]`)
	client := NewClient(testConfig(server.URL), zerolog.Nop())

	_, err := client.Fetch(context.Background(), "rockets")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestFetch_SingleAttemptBudget(t *testing.T) {
	server, hits := flakyServer(t, 100, http.StatusBadGateway, `[]`)
	cfg := testConfig(server.URL)
	cfg.MaxAttempts = 1
	client := NewClient(cfg, zerolog.Nop())

	_, err := client.Fetch(context.Background(), EndpointRockets)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	assert.True(t, IsHTTPStatus(err, http.StatusBadGateway))
}

func TestFetch_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(testConfig(url), zerolog.Nop())

	_, err := client.Fetch(context.Background(), EndpointRockets)
	require.Error(t, err)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, KindConnection, upErr.Kind)
	assert.Equal(t, 3, upErr.Attempts)
	assert.True(t, IsConnectionError(err))
	assert.Equal(t, 0, StatusCode(err))
}

func TestFetch_TimeoutPerAttempt(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	cfg.MaxAttempts = 2
	client := NewClient(cfg, zerolog.Nop())

	_, err := client.Fetch(context.Background(), EndpointRockets)
	require.Error(t, err)
	assert.True(t, IsConnectionError(err))
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestFetch_DecodeErrorIsNotRetried(t *testing.T) {
	server, hits := flakyServer(t, 0, http.StatusOK, `{"not":"an array"}`)
	client := NewClient(testConfig(server.URL), zerolog.Nop())

	_, err := client.Fetch(context.Background(), EndpointRockets)
	require.Error(t, err)

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, KindDecode, upErr.Kind)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestFetch_CancelledContext(t *testing.T) {
	server, _ := flakyServer(t, 0, http.StatusOK, `[]`)
	client := NewClient(testConfig(server.URL), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Fetch(ctx, EndpointRockets)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
