package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/adfharrison1/employee-api/pkg/domain"
	"github.com/adfharrison1/employee-api/pkg/logger"
)

// Handler provides HTTP handlers for the employee API
type Handler struct {
	store   domain.EmployeeStore
	backend string
	log     zerolog.Logger
}

// NewHandler creates a new API handler with dependency injection. backend
// names the store in health responses.
func NewHandler(store domain.EmployeeStore, backend string, log zerolog.Logger) *Handler {
	return &Handler{
		store:   store,
		backend: backend,
		log:     log,
	}
}

// logFor returns the request-scoped logger
func (h *Handler) logFor(r *http.Request) *zerolog.Logger {
	return logger.FromContext(r.Context(), h.log)
}
