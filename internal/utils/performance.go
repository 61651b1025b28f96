package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// Slow-operation thresholds
const (
	// A dashboard miss runs three upstream fetches that each may retry
	SlowRequestThreshold = 5 * time.Second
	SlowQueryThreshold   = 500 * time.Millisecond
)

// OperationTimer measures an operation and logs it when the returned func runs,
// at warn level once it exceeds threshold.
//
//	defer utils.OperationTimer("dashboard", utils.SlowRequestThreshold, log)()
func OperationTimer(operation string, threshold time.Duration, log zerolog.Logger) func() time.Duration {
	start := time.Now()

	return func() time.Duration {
		duration := time.Since(start)
		event := log.Debug()
		if duration > threshold {
			event = log.Warn().Bool("slow", true)
		}
		event.
			Str("operation", operation).
			Dur("duration_ms", duration).
			Msg("Operation completed")
		return duration
	}
}

// MeasureDBQuery measures a fetch history query; pass the affected row count to the returned func
func MeasureDBQuery(queryName string, log zerolog.Logger) func(rowsAffected int64) {
	start := time.Now()

	return func(rowsAffected int64) {
		duration := time.Since(start)
		event := log.Debug()
		if duration > SlowQueryThreshold {
			event = log.Warn().Bool("slow", true)
		}
		event.
			Str("query", queryName).
			Dur("duration_ms", duration).
			Int64("rows_affected", rowsAffected).
			Msg("Database query completed")
	}
}
