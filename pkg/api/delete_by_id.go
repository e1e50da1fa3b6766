package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/employee-api/pkg/domain"
)

// HandleDeleteById handles DELETE requests to remove a specific employee by ID
func (h *Handler) HandleDeleteById(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log := h.logFor(r).With().Str("employee_id", id).Logger()
	log.Debug().Msg("handleDeleteById called")

	if err := h.store.DeleteByID(r.Context(), id); err != nil {
		if domain.IsLookupFailure(err) {
			log.Info().Err(err).Msg("Employee not found")
			writeNotFound(w)
			return
		}
		log.Error().Err(err).Msg("Delete failed")
		WriteJSONError(w, http.StatusInternalServerError, "Error deleting employee", err)
		return
	}

	log.Info().Msg("Deleted employee")
	WriteJSON(w, http.StatusOK, MessageResponse{Message: msgEmployeeDeleted})
}
