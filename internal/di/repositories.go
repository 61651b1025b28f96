// Package di provides dependency injection for repository implementations.
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/spacedash/internal/fetchlog"
)

// InitializeRepositories creates all repositories and stores them in the container
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}
	if container.HistoryDB == nil {
		return fmt.Errorf("history database not initialized")
	}

	container.FetchRepo = fetchlog.NewRepository(container.HistoryDB.Conn(), log)

	return nil
}
