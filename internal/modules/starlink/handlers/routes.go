package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all Starlink routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/starlink", func(r chi.Router) {
		r.Get("/", h.HandleGetStarlink)
	})
}
