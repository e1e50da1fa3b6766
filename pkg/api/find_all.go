package api

import (
	"net/http"
)

// HandleFindAll handles GET requests listing every employee
func (h *Handler) HandleFindAll(w http.ResponseWriter, r *http.Request) {
	log := h.logFor(r)
	log.Debug().Msg("handleFindAll called")

	employees, err := h.store.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Listing employees failed")
		WriteJSONError(w, http.StatusInternalServerError, "Error fetching employees", err)
		return
	}

	log.Info().Int("count", len(employees)).Msg("Found employees")
	WriteJSON(w, http.StatusOK, employees)
}
