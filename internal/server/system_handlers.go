package server

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/hako/durafmt"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/spacedash/internal/cache"
	"github.com/aristath/spacedash/internal/clients/spacex"
	"github.com/aristath/spacedash/internal/database"
	"github.com/aristath/spacedash/internal/fetchlog"
	"github.com/aristath/spacedash/internal/utils"
)

// CacheController exposes the response cache to operators
type CacheController interface {
	CacheStats() cache.Stats
	ClearCache() int
}

// FetchHistory lists recorded upstream fetches
type FetchHistory interface {
	List(ctx context.Context, filter fetchlog.ListFilter) ([]fetchlog.Fetch, error)
}

// JobLister names the registered background jobs
type JobLister interface {
	Jobs() []string
}

// UpstreamInfo describes how the SpaceX API is reached
type UpstreamInfo struct {
	BaseURL      string `json:"base_url" msgpack:"base_url"`
	MaxAttempts  int    `json:"max_attempts" msgpack:"max_attempts"`
	Timeout      string `json:"timeout" msgpack:"timeout"`
	SingleFlight bool   `json:"single_flight" msgpack:"single_flight"`
}

// SystemHandlers handles system monitoring and operations endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	version     string
	startupTime time.Time
	cache       CacheController
	history     FetchHistory
	historyDB   *database.DB
	jobs        JobLister
	upstream    UpstreamInfo
	endpoints   map[string]bool
}

// NewSystemHandlers creates a new system handlers instance.
// historyDB and jobs may be nil.
func NewSystemHandlers(
	log zerolog.Logger,
	version string,
	cacheCtl CacheController,
	history FetchHistory,
	historyDB *database.DB,
	jobs JobLister,
	upstream UpstreamInfo,
) *SystemHandlers {
	endpoints := make(map[string]bool, len(spacex.Endpoints))
	for _, e := range spacex.Endpoints {
		endpoints[e] = true
	}

	return &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		version:     version,
		startupTime: time.Now(),
		cache:       cacheCtl,
		history:     history,
		historyDB:   historyDB,
		jobs:        jobs,
		upstream:    upstream,
		endpoints:   endpoints,
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/system", func(r chi.Router) {
		r.Get("/status", h.HandleSystemStatus)
		r.Get("/fetches", h.HandleListFetches)
		r.Delete("/cache", h.HandleClearCache)
	})
}

// CacheStatus is the cache section of the status report
type CacheStatus struct {
	cache.Stats
	TTLHuman string  `json:"ttl_human" msgpack:"ttl_human"`
	HitRatio float64 `json:"hit_ratio" msgpack:"hit_ratio"`
}

// DatabaseStatus is the fetch history database section of the status report
type DatabaseStatus struct {
	Path      string `json:"path" msgpack:"path"`
	SizeBytes int64  `json:"size_bytes" msgpack:"size_bytes"`
	Size      string `json:"size" msgpack:"size"`
	WALSize   string `json:"wal_size" msgpack:"wal_size"`
}

// LastFetchStatus summarizes the most recent upstream fetch
type LastFetchStatus struct {
	Endpoint  string    `json:"endpoint" msgpack:"endpoint"`
	Success   bool      `json:"success" msgpack:"success"`
	FetchedAt time.Time `json:"fetched_at" msgpack:"fetched_at"`
	Ago       string    `json:"ago" msgpack:"ago"`
}

// SystemStatusResponse represents system status
type SystemStatusResponse struct {
	Status        string           `json:"status" msgpack:"status"`
	Version       string           `json:"version" msgpack:"version"`
	StartedAt     time.Time        `json:"started_at" msgpack:"started_at"`
	StartedAgo    string           `json:"started_ago" msgpack:"started_ago"`
	Uptime        string           `json:"uptime" msgpack:"uptime"`
	UptimeSeconds int64            `json:"uptime_seconds" msgpack:"uptime_seconds"`
	CPUPercent    float64          `json:"cpu_percent" msgpack:"cpu_percent"`
	RAMPercent    float64          `json:"ram_percent" msgpack:"ram_percent"`
	HeapAlloc     string           `json:"heap_alloc" msgpack:"heap_alloc"`
	Goroutines    int              `json:"goroutines" msgpack:"goroutines"`
	Cache         CacheStatus      `json:"cache" msgpack:"cache"`
	Upstream      UpstreamInfo     `json:"upstream" msgpack:"upstream"`
	Database      *DatabaseStatus  `json:"database,omitempty" msgpack:"database,omitempty"`
	LastFetch     *LastFetchStatus `json:"last_fetch,omitempty" msgpack:"last_fetch,omitempty"`
	Jobs          []string         `json:"jobs" msgpack:"jobs"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startupTime)
	cpuPercent, ramPercent := h.getSystemStats()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := SystemStatusResponse{
		Status:        "healthy",
		Version:       h.version,
		StartedAt:     h.startupTime,
		StartedAgo:    humanize.Time(h.startupTime),
		Uptime:        durafmt.Parse(uptime).LimitFirstN(2).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		HeapAlloc:     humanize.Bytes(memStats.HeapAlloc),
		Goroutines:    runtime.NumGoroutine(),
		Cache:         h.cacheStatus(),
		Upstream:      h.upstream,
		Database:      h.databaseStatus(),
		LastFetch:     h.lastFetch(r.Context()),
		Jobs:          h.jobNames(),
	}

	h.writeJSON(w, r, http.StatusOK, response)
}

// FetchListResponse is the body of GET /api/system/fetches
type FetchListResponse struct {
	Data  []fetchlog.Fetch `json:"data" msgpack:"data"`
	Count int              `json:"count" msgpack:"count"`
}

// HandleListFetches handles GET /api/system/fetches?limit&endpoint
func (h *SystemHandlers) HandleListFetches(w http.ResponseWriter, r *http.Request) {
	limit, err := utils.QueryInt(r, "limit", 50, 1, 500)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	endpoint := r.URL.Query().Get("endpoint")
	if endpoint != "" && !h.endpoints[endpoint] {
		h.writeError(w, r, http.StatusBadRequest, (&utils.ValidationError{
			Param:   "endpoint",
			Message: "must be one of rockets, launches, starlink",
		}).Error())
		return
	}

	fetches, err := h.history.List(r.Context(), fetchlog.ListFilter{Endpoint: endpoint, Limit: limit})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list upstream fetches")
		h.writeError(w, r, http.StatusInternalServerError, "failed to list upstream fetches")
		return
	}

	h.writeJSON(w, r, http.StatusOK, FetchListResponse{Data: fetches, Count: len(fetches)})
}

// HandleClearCache handles DELETE /api/system/cache
func (h *SystemHandlers) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	cleared := h.cache.ClearCache()
	h.log.Info().Int("cleared", cleared).Msg("Response cache cleared")

	h.writeJSON(w, r, http.StatusOK, map[string]int{"cleared": cleared})
}

func (h *SystemHandlers) cacheStatus() CacheStatus {
	stats := h.cache.CacheStats()
	status := CacheStatus{
		Stats:    stats,
		TTLHuman: durafmt.Parse(stats.TTL).LimitFirstN(2).String(),
	}
	if lookups := stats.Hits + stats.Misses; lookups > 0 {
		status.HitRatio = float64(stats.Hits) / float64(lookups)
	}
	return status
}

func (h *SystemHandlers) databaseStatus() *DatabaseStatus {
	if h.historyDB == nil {
		return nil
	}

	stats, err := h.historyDB.GetStats()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get history database stats")
		return nil
	}

	return &DatabaseStatus{
		Path:      h.historyDB.Path(),
		SizeBytes: stats.SizeBytes,
		Size:      humanize.Bytes(uint64(stats.SizeBytes)),
		WALSize:   humanize.Bytes(uint64(stats.WALSizeBytes)),
	}
}

func (h *SystemHandlers) lastFetch(ctx context.Context) *LastFetchStatus {
	fetches, err := h.history.List(ctx, fetchlog.ListFilter{Limit: 1})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			h.log.Warn().Err(err).Msg("Failed to read last upstream fetch")
		}
		return nil
	}
	if len(fetches) == 0 {
		return nil
	}

	f := fetches[0]
	return &LastFetchStatus{
		Endpoint:  f.Endpoint,
		Success:   f.Success,
		FetchedAt: f.FetchedAt,
		Ago:       humanize.Time(f.FetchedAt),
	}
}

func (h *SystemHandlers) jobNames() []string {
	if h.jobs == nil {
		return []string{}
	}
	names := h.jobs.Jobs()
	sort.Strings(names)
	return names
}

// getSystemStats returns CPU and RAM usage percentages
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	// Sampled over 100ms so the status call stays fast
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	utils.WriteResponse(w, r, status, data, h.log)
}

func (h *SystemHandlers) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	utils.WriteError(w, r, status, message, h.log)
}
