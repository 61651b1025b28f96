package ratelimit

import (
	"time"

	"github.com/rs/zerolog"
)

// PruneJob drops idle clients from a Limiter so its map stays bounded.
type PruneJob struct {
	limiter *Limiter
	idle    time.Duration
	log     zerolog.Logger
}

// NewPruneJob creates a job forgetting clients idle for longer than idle
func NewPruneJob(limiter *Limiter, idle time.Duration, log zerolog.Logger) *PruneJob {
	return &PruneJob{
		limiter: limiter,
		idle:    idle,
		log:     log.With().Str("job", "rate_limiter_prune").Logger(),
	}
}

// Run prunes idle clients
func (j *PruneJob) Run() error {
	if removed := j.limiter.Prune(j.idle); removed > 0 {
		j.log.Debug().Int("removed", removed).Int("remaining", j.limiter.Len()).Msg("Pruned idle clients")
	}
	return nil
}

// Name returns the job name
func (j *PruneJob) Name() string {
	return "rate_limiter_prune"
}
