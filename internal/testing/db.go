// Package testing provides testing utilities and helpers for the spacedash project.
package testing

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/aristath/spacedash/internal/database"
)

// profiles mirrors the profile each database is opened with in di
var profiles = map[string]database.DatabaseProfile{
	"history": database.ProfileCache,
}

// NewTestDB opens a migrated SQLite database under t.TempDir().
// Known names ("history") get their schema and production profile; unknown names
// get an empty standard database. The returned cleanup is idempotent and is also
// registered with t.Cleanup.
func NewTestDB(t *testing.T, name string) (*database.DB, func()) {
	t.Helper()

	profile, ok := profiles[name]
	if !ok {
		profile = database.ProfileStandard
	}

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), fmt.Sprintf("test_%s.db", name)),
		Profile: profile,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	closed := false
	cleanup := func() {
		if closed {
			return
		}
		closed = true
		_ = db.Close()
	}
	t.Cleanup(cleanup)

	return db, cleanup
}
