package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all launch routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/launches", func(r chi.Router) {
		r.Get("/", h.HandleGetLaunches)
	})
}
