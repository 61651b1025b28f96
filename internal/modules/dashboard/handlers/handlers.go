// Package handlers provides the HTTP handler for the dashboard summary.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/aristath/spacedash/internal/domain"
	"github.com/aristath/spacedash/internal/modules/dashboard"
	"github.com/aristath/spacedash/internal/utils"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Handler handles dashboard HTTP requests
type Handler struct {
	provider domain.SpaceXDataProvider
	log      zerolog.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(provider domain.SpaceXDataProvider, log zerolog.Logger) *Handler {
	return &Handler{
		provider: provider,
		log:      log.With().Str("handler", "dashboard").Logger(),
	}
}

// HandleGetDashboard returns headline counts for all three resources.
// Any upstream failure fails the whole request with 502.
func (h *Handler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	defer utils.OperationTimer("dashboard", utils.SlowRequestThreshold, h.log)()

	var (
		rockets  []domain.Rocket
		launches []domain.Launch
		sats     []domain.StarlinkSatellite
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		rockets, err = h.provider.GetRockets(ctx)
		return err
	})
	g.Go(func() (err error) {
		launches, err = h.provider.GetLaunches(ctx)
		return err
	})
	g.Go(func() (err error) {
		sats, err = h.provider.GetStarlink(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		h.log.Error().Err(err).Msg("Dashboard aggregation failed")
		h.writeError(w, r, http.StatusBadGateway, fmt.Sprintf("dashboard unavailable: %v", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, dashboard.Summarize(rockets, launches, sats))
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	utils.WriteResponse(w, r, status, data, h.log)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	utils.WriteError(w, r, status, message, h.log)
}
