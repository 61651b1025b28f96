package scheduler

import "github.com/rs/zerolog"

// ExpiredPurger is implemented by caches that can drop expired entries in bulk
type ExpiredPurger interface {
	DeleteExpired() int
}

// CachePurgeJob reclaims memory held by expired cache entries.
// Expiry is still enforced on read; this only frees space earlier.
type CachePurgeJob struct {
	cache ExpiredPurger
	log   zerolog.Logger
}

// NewCachePurgeJob creates a new cache purge job
func NewCachePurgeJob(cache ExpiredPurger, log zerolog.Logger) *CachePurgeJob {
	return &CachePurgeJob{
		cache: cache,
		log:   log.With().Str("job", "cache_purge").Logger(),
	}
}

// Run drops every expired entry
func (j *CachePurgeJob) Run() error {
	if removed := j.cache.DeleteExpired(); removed > 0 {
		j.log.Debug().Int("removed", removed).Msg("Purged expired cache entries")
	}
	return nil
}

// Name returns the job name for scheduling and logging
func (j *CachePurgeJob) Name() string {
	return "cache_purge"
}
