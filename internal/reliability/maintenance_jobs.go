// Package reliability keeps the fetch history database healthy.
package reliability

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/aristath/spacedash/internal/database"
)

const (
	criticalFreeBytes = 100 * 1024 * 1024  // 100MB
	lowFreeBytes      = 1024 * 1024 * 1024 // 1GB
)

// DiskUsageFunc reports free bytes on the filesystem holding path
type DiskUsageFunc func(path string) (uint64, error)

func freeBytes(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

// DailyMaintenanceJob checks, checkpoints and sizes the history database
type DailyMaintenanceJob struct {
	db        *database.DB
	diskUsage DiskUsageFunc
	log       zerolog.Logger
}

// NewDailyMaintenanceJob creates a new daily maintenance job
func NewDailyMaintenanceJob(db *database.DB, log zerolog.Logger) *DailyMaintenanceJob {
	return &DailyMaintenanceJob{
		db:        db,
		diskUsage: freeBytes,
		log:       log.With().Str("job", "daily_maintenance").Logger(),
	}
}

// Run executes the daily maintenance job
func (j *DailyMaintenanceJob) Run() error {
	j.log.Info().Msg("Starting daily maintenance")
	startTime := time.Now()

	// Step 1: connectivity check
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := j.db.QuickCheck(ctx); err != nil {
		return fmt.Errorf("history database unreachable: %w", err)
	}

	// Step 2: WAL checkpoint (prevent bloat)
	if err := j.db.WALCheckpoint("TRUNCATE"); err != nil {
		// Not critical, the next run retries
		j.log.Warn().Err(err).Msg("WAL checkpoint failed")
	}

	// Step 3: check disk space
	if err := j.checkDiskSpace(); err != nil {
		return err
	}

	// Step 4: report size
	if stats, err := j.db.GetStats(); err == nil {
		j.log.Info().
			Str("size", humanize.Bytes(uint64(stats.SizeBytes))).
			Int64("free_pages", stats.FreelistCount).
			Msg("History database size")
	}

	j.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Msg("Daily maintenance completed successfully")

	return nil
}

// Name returns the job name for scheduler
func (j *DailyMaintenanceJob) Name() string {
	return "daily_maintenance"
}

// checkDiskSpace fails when the data directory is nearly full
func (j *DailyMaintenanceJob) checkDiskSpace() error {
	dataDir := filepath.Dir(j.db.Path())
	free, err := j.diskUsage(dataDir)
	if err != nil {
		j.log.Warn().Err(err).Str("dir", dataDir).Msg("Failed to read disk usage")
		return nil
	}

	j.log.Debug().Str("free", humanize.Bytes(free)).Msg("Disk space check")

	if free < criticalFreeBytes {
		j.log.Error().Str("free", humanize.Bytes(free)).Msg("CRITICAL: Insufficient disk space for fetch history")
		return fmt.Errorf("only %s free in %s", humanize.Bytes(free), dataDir)
	}
	if free < lowFreeBytes {
		j.log.Warn().Str("free", humanize.Bytes(free)).Msg("Disk space running low")
	}

	return nil
}
