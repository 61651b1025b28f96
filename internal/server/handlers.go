package server

import (
	"net/http"

	"github.com/aristath/spacedash/internal/utils"
)

const serviceName = "spacedash"

// handleRoot answers GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"message": "SpaceX dashboard API running",
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"service": serviceName,
	}

	s.writeJSON(w, r, http.StatusOK, response)
}

// writeJSON writes a JSON (or msgpack) response
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	utils.WriteResponse(w, r, status, data, s.log)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	utils.WriteError(w, r, status, message, s.log)
}
