// Package handlers provides HTTP handlers for launches.
package handlers

import (
	"net/http"

	"github.com/aristath/spacedash/internal/domain"
	"github.com/aristath/spacedash/internal/modules/launches"
	"github.com/aristath/spacedash/internal/utils"
	"github.com/rs/zerolog"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// Handler handles launch HTTP requests
type Handler struct {
	provider domain.SpaceXDataProvider
	log      zerolog.Logger
}

// NewHandler creates a new launches handler
func NewHandler(provider domain.SpaceXDataProvider, log zerolog.Logger) *Handler {
	return &Handler{
		provider: provider,
		log:      log.With().Str("handler", "launches").Logger(),
	}
}

// HandleGetLaunches returns a page of launches with stats over the filtered set
// GET /api/launches?year&success&limit&page
func (h *Handler) HandleGetLaunches(w http.ResponseWriter, r *http.Request) {
	filter, params, err := parseQuery(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	all, err := h.provider.GetLaunches(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get launches")
		h.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	filtered := launches.Apply(all, filter)
	page, pagination := utils.Paginate(filtered, params.Page, params.Limit)

	h.writeJSON(w, r, http.StatusOK, utils.ListResponse[domain.Launch, launches.Stats]{
		Data:       page,
		Pagination: pagination,
		Stats:      launches.ComputeStats(filtered),
	})
}

func parseQuery(r *http.Request) (launches.Filter, utils.PageParams, error) {
	var filter launches.Filter

	params, err := utils.ParsePageParams(r, defaultLimit, maxLimit)
	if err != nil {
		return filter, params, err
	}
	if filter.Year, err = utils.QueryOptionalInt(r, "year"); err != nil {
		return filter, params, err
	}
	if filter.Success, err = utils.QueryOptionalBool(r, "success"); err != nil {
		return filter, params, err
	}
	return filter, params, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	utils.WriteResponse(w, r, status, data, h.log)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	utils.WriteError(w, r, status, message, h.log)
}
