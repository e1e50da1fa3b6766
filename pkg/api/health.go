package api

import (
	"net/http"

	"github.com/adfharrison1/employee-api/pkg/domain"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string                 `json:"status"`
	Backend string                 `json:"backend"`
	Error   string                 `json:"error,omitempty"`
	Stats   map[string]interface{} `json:"stats,omitempty"`
}

// HandleHealth reports whether the store answers
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Backend: h.backend,
	}
	if provider, ok := h.store.(domain.StatsProvider); ok {
		response.Stats = provider.GetMemoryStats()
	}

	if err := h.store.Ping(r.Context()); err != nil {
		h.logFor(r).Warn().Err(err).Msg("Health check failed")
		response.Status = "unhealthy"
		response.Error = err.Error()
		WriteJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	WriteJSON(w, http.StatusOK, response)
}
