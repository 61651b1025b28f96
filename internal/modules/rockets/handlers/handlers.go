// Package handlers provides HTTP handlers for rockets.
package handlers

import (
	"net/http"

	"github.com/aristath/spacedash/internal/domain"
	"github.com/aristath/spacedash/internal/modules/rockets"
	"github.com/aristath/spacedash/internal/utils"
	"github.com/rs/zerolog"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Handler handles rocket HTTP requests
type Handler struct {
	provider domain.SpaceXDataProvider
	log      zerolog.Logger
}

// NewHandler creates a new rockets handler
func NewHandler(provider domain.SpaceXDataProvider, log zerolog.Logger) *Handler {
	return &Handler{
		provider: provider,
		log:      log.With().Str("handler", "rockets").Logger(),
	}
}

// HandleGetRockets returns a page of projected rockets
// GET /api/rockets?active&limit&page
func (h *Handler) HandleGetRockets(w http.ResponseWriter, r *http.Request) {
	params, err := utils.ParsePageParams(r, defaultLimit, maxLimit)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	active, err := utils.QueryOptionalBool(r, "active")
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	all, err := h.provider.GetRockets(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get rockets")
		h.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	filtered := rockets.FilterActive(all, active)
	page, pagination := utils.Paginate(filtered, params.Page, params.Limit)

	h.writeJSON(w, r, http.StatusOK, utils.ListResponse[rockets.Summary, rockets.Stats]{
		Data:       rockets.ProjectAll(page),
		Pagination: pagination,
		Stats:      rockets.ComputeStats(filtered),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	utils.WriteResponse(w, r, status, data, h.log)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	utils.WriteError(w, r, status, message, h.log)
}
