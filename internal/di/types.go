/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to the server for access to services.
 */
package di

import (
	"github.com/aristath/spacedash/internal/cache"
	"github.com/aristath/spacedash/internal/clients/spacex"
	"github.com/aristath/spacedash/internal/database"
	"github.com/aristath/spacedash/internal/fetchlog"
	"github.com/aristath/spacedash/internal/ratelimit"
	"github.com/aristath/spacedash/internal/scheduler"
	"github.com/aristath/spacedash/internal/services"
)

/**
 * Container holds all dependencies for the application.
 *
 * Architecture:
 * - Databases: history.db (upstream fetch log)
 * - Clients: SpaceX API client with retry
 * - Repositories: fetch history
 * - Services: cache-first data service shared by every handler
 * - Scheduler: housekeeping jobs (cache purge, history cleanup, maintenance, rate limiter prune)
 */
type Container struct {
	// Databases
	HistoryDB *database.DB

	// Clients
	SpaceXClient *spacex.Client

	// Repositories
	FetchRepo *fetchlog.Repository

	// Services
	PayloadCache *cache.Cache[spacex.Payload]
	DataService  *services.SpaceXDataService
	RateLimiter  *ratelimit.Limiter

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// JobInstances holds references to registered jobs for manual triggering
type JobInstances struct {
	CachePurge       scheduler.Job
	HistoryCleanup   scheduler.Job
	DailyMaintenance scheduler.Job
	RateLimiterPrune scheduler.Job
}

// Close releases the container's resources. The scheduler must already be stopped.
func (c *Container) Close() error {
	if c.HistoryDB != nil {
		return c.HistoryDB.Close()
	}
	return nil
}
