package api

import (
	"net/http"
)

// HandleInsert handles POST requests creating an employee
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	log := h.logFor(r)
	log.Debug().Msg("handleInsert called")

	fields, err := decodeFields(w, r)
	if err != nil {
		if isCastError(err) {
			log.Warn().Err(err).Msg("Employee fields could not be coerced")
			WriteJSONError(w, http.StatusInternalServerError, "Error creating employee", err)
			return
		}
		log.Warn().Err(err).Msg("Decoding body failed")
		WriteJSONError(w, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	employee, err := h.store.Create(r.Context(), fields)
	if err != nil {
		log.Error().Err(err).Msg("Insert failed")
		WriteJSONError(w, http.StatusInternalServerError, "Error creating employee", err)
		return
	}

	log.Info().Str("employee_id", employee.ID).Msg("Insert successful")
	WriteJSON(w, http.StatusOK, employee)
}
