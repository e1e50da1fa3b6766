package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router. OPTIONS
// routes let mux.CORSMethodMiddleware advertise each path's methods.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/employees", h.HandleFindAll).Methods(http.MethodGet)
	router.HandleFunc("/employees", h.HandleInsert).Methods(http.MethodPost)
	router.HandleFunc("/employees", h.HandlePreflight).Methods(http.MethodOptions)

	// Document operations (by ID). PATCH is an alias: both merge.
	router.HandleFunc("/employees/{id}", h.HandleGetById).Methods(http.MethodGet)
	router.HandleFunc("/employees/{id}", h.HandleUpdateById).Methods(http.MethodPut, http.MethodPatch)
	router.HandleFunc("/employees/{id}", h.HandleDeleteById).Methods(http.MethodDelete)
	router.HandleFunc("/employees/{id}", h.HandlePreflight).Methods(http.MethodOptions)

	router.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)
}

// HandlePreflight answers CORS preflight requests
func (h *Handler) HandlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
