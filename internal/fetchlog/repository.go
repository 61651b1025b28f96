// Package fetchlog keeps a history of calls made to the SpaceX API.
// Only metadata is stored (attempts, status, timing); upstream records never are.
package fetchlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aristath/spacedash/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Fetch is one upstream call as seen by the data service
type Fetch struct {
	ID         string    `json:"id" msgpack:"id"`
	Endpoint   string    `json:"endpoint" msgpack:"endpoint"`
	Attempts   int       `json:"attempts" msgpack:"attempts"`
	StatusCode int       `json:"status_code" msgpack:"status_code"`
	Success    bool      `json:"success" msgpack:"success"`
	Error      string    `json:"error,omitempty" msgpack:"error,omitempty"`
	DurationMs int64     `json:"duration_ms" msgpack:"duration_ms"`
	Records    int       `json:"records" msgpack:"records"`
	FetchedAt  time.Time `json:"fetched_at" msgpack:"fetched_at"`
}

// ListFilter narrows List results
type ListFilter struct {
	Endpoint string // Empty means all endpoints
	Limit    int    // Clamped to [1, 500]; 0 means 50
}

// Repository stores fetch history in the upstream_fetches table
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new fetch history repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "fetch_history").Logger(),
	}
}

// Record inserts a fetch. ID and FetchedAt are filled in when empty.
func (r *Repository) Record(ctx context.Context, f Fetch) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.FetchedAt.IsZero() {
		f.FetchedAt = time.Now()
	}

	var errText sql.NullString
	if f.Error != "" {
		errText = sql.NullString{String: f.Error, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO upstream_fetches
			(id, endpoint, attempts, status_code, success, error, duration_ms, records, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Endpoint, f.Attempts, f.StatusCode, boolToInt(f.Success), errText,
		f.DurationMs, f.Records, f.FetchedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record fetch of %s: %w", f.Endpoint, err)
	}
	return nil
}

// List returns the most recent fetches, newest first
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Fetch, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := `SELECT id, endpoint, attempts, status_code, success, error, duration_ms, records, fetched_at
		FROM upstream_fetches`
	args := []interface{}{}
	if filter.Endpoint != "" {
		query += " WHERE endpoint = ?"
		args = append(args, filter.Endpoint)
	}
	query += " ORDER BY fetched_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch history: %w", err)
	}
	defer rows.Close()

	fetches := make([]Fetch, 0)
	for rows.Next() {
		var (
			f         Fetch
			success   int
			errText   sql.NullString
			fetchedAt int64
		)
		if err := rows.Scan(&f.ID, &f.Endpoint, &f.Attempts, &f.StatusCode, &success,
			&errText, &f.DurationMs, &f.Records, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fetch history row: %w", err)
		}
		f.Success = success == 1
		f.Error = errText.String
		f.FetchedAt = time.UnixMilli(fetchedAt).UTC()
		fetches = append(fetches, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fetch history: %w", err)
	}

	return fetches, nil
}

// DeleteOlderThan removes fetches recorded before cutoff and returns how many were removed
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	done := utils.MeasureDBQuery("delete_old_fetches", r.log)

	result, err := r.db.ExecContext(ctx,
		"DELETE FROM upstream_fetches WHERE fetched_at < ?", cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old fetch history: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	done(deleted)
	return deleted, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
