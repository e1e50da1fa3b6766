package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/employee-api/pkg/domain"
)

// HandleGetById handles GET requests to retrieve a specific employee by ID
func (h *Handler) HandleGetById(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log := h.logFor(r).With().Str("employee_id", id).Logger()
	log.Debug().Msg("handleGetById called")

	employee, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if domain.IsLookupFailure(err) {
			log.Info().Err(err).Msg("Employee not found")
			writeNotFound(w)
			return
		}
		log.Error().Err(err).Msg("Fetching employee failed")
		WriteJSONError(w, http.StatusInternalServerError, "Error fetching employee", err)
		return
	}

	log.Info().Msg("Retrieved employee")
	WriteJSON(w, http.StatusOK, employee)
}
