package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/employee-api/pkg/domain"
)

// HandleUpdateById handles PUT and PATCH requests merging the supplied
// fields into an employee
func (h *Handler) HandleUpdateById(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log := h.logFor(r).With().Str("employee_id", id).Logger()
	log.Debug().Msg("handleUpdateById called")

	fields, err := decodeFields(w, r)
	if err != nil {
		if isCastError(err) {
			log.Warn().Err(err).Msg("Employee fields could not be coerced")
			WriteJSONError(w, http.StatusInternalServerError, "Error updating employee", err)
			return
		}
		log.Warn().Err(err).Msg("Decoding body failed")
		WriteJSONError(w, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	employee, err := h.store.UpdateByID(r.Context(), id, fields)
	if err != nil {
		// A malformed id arrives wrapped in a StoreError and is a 500
		if errors.Is(err, domain.ErrNotFound) {
			log.Info().Err(err).Msg("Employee not found")
			writeNotFound(w)
			return
		}
		log.Error().Err(err).Msg("Update failed")
		WriteJSONError(w, http.StatusInternalServerError, "Error updating employee", err)
		return
	}

	log.Info().Msg("Updated employee")
	WriteJSON(w, http.StatusOK, employee)
}
