package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all rocket routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/rockets", func(r chi.Router) {
		r.Get("/", h.HandleGetRockets)
	})
}
