// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/spacedash/internal/config"
	"github.com/aristath/spacedash/internal/fetchlog"
	"github.com/aristath/spacedash/internal/ratelimit"
	"github.com/aristath/spacedash/internal/reliability"
	"github.com/aristath/spacedash/internal/scheduler"
)

const (
	cachePurgeSchedule       = "@every 1m"
	historyCleanupSchedule   = "@hourly"
	rateLimiterPruneSchedule = "@every 5m"
	maintenanceSchedule      = "0 0 3 * * *" // 03:00 daily
	rateLimiterIdle          = 10 * time.Minute
)

// RegisterJobs creates the scheduler and registers housekeeping jobs.
// The scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	container.Scheduler = scheduler.New(log)
	instances := &JobInstances{}

	// Job 1: drop expired cache entries so idle endpoints don't hold memory
	instances.CachePurge = scheduler.NewCachePurgeJob(container.PayloadCache, log)
	if err := container.Scheduler.AddJob(cachePurgeSchedule, instances.CachePurge); err != nil {
		return nil, fmt.Errorf("failed to register cache purge job: %w", err)
	}

	// Job 2: trim fetch history past the retention window
	instances.HistoryCleanup = fetchlog.NewCleanupJob(container.FetchRepo, cfg.FetchHistoryRetention, log)
	if err := container.Scheduler.AddJob(historyCleanupSchedule, instances.HistoryCleanup); err != nil {
		return nil, fmt.Errorf("failed to register fetch history cleanup job: %w", err)
	}

	// Job 3: history database integrity, WAL checkpoint and disk space
	instances.DailyMaintenance = reliability.NewDailyMaintenanceJob(container.HistoryDB, log)
	if err := container.Scheduler.AddJob(maintenanceSchedule, instances.DailyMaintenance); err != nil {
		return nil, fmt.Errorf("failed to register daily maintenance job: %w", err)
	}

	// Job 4: forget idle rate limiter clients
	if container.RateLimiter != nil && container.RateLimiter.Enabled() {
		instances.RateLimiterPrune = ratelimit.NewPruneJob(container.RateLimiter, rateLimiterIdle, log)
		if err := container.Scheduler.AddJob(rateLimiterPruneSchedule, instances.RateLimiterPrune); err != nil {
			return nil, fmt.Errorf("failed to register rate limiter prune job: %w", err)
		}
	}

	return instances, nil
}
