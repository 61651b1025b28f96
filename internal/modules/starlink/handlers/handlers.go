// Package handlers provides HTTP handlers for Starlink satellites.
package handlers

import (
	"net/http"

	"github.com/aristath/spacedash/internal/domain"
	"github.com/aristath/spacedash/internal/modules/starlink"
	"github.com/aristath/spacedash/internal/utils"
	"github.com/rs/zerolog"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// Handler handles Starlink HTTP requests
type Handler struct {
	provider domain.SpaceXDataProvider
	log      zerolog.Logger
}

// NewHandler creates a new Starlink handler
func NewHandler(provider domain.SpaceXDataProvider, log zerolog.Logger) *Handler {
	return &Handler{
		provider: provider,
		log:      log.With().Str("handler", "starlink").Logger(),
	}
}

// HandleGetStarlink returns a page of normalized satellites
// GET /api/starlink?limit&page&altitude_min&inclination_min
func (h *Handler) HandleGetStarlink(w http.ResponseWriter, r *http.Request) {
	filter, params, err := parseQuery(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	raw, err := h.provider.GetStarlink(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get starlink satellites")
		h.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	filtered := starlink.Apply(starlink.NormalizeAll(raw), filter)
	page, pagination := utils.Paginate(filtered, params.Page, params.Limit)

	h.writeJSON(w, r, http.StatusOK, utils.ListResponse[starlink.Satellite, starlink.Stats]{
		Data:       page,
		Pagination: pagination,
		Stats:      starlink.ComputeStats(filtered),
	})
}

func parseQuery(r *http.Request) (starlink.Filter, utils.PageParams, error) {
	var filter starlink.Filter

	params, err := utils.ParsePageParams(r, defaultLimit, maxLimit)
	if err != nil {
		return filter, params, err
	}
	if filter.AltitudeMin, err = utils.QueryOptionalFloat(r, "altitude_min"); err != nil {
		return filter, params, err
	}
	if filter.InclinationMin, err = utils.QueryOptionalFloat(r, "inclination_min"); err != nil {
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
