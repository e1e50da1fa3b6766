package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adfharrison1/employee-api/pkg/domain"
)

const (
	msgEmployeeNotFound = "Employee not found"
	msgEmployeeDeleted  = "Employee deleted successfully"
	msgInvalidBody      = "Invalid request body"
)

// ErrorResponse is the JSON envelope for failed requests
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details ErrorDetails `json:"details"`
}

// ErrorDetails carries the underlying failure
type ErrorDetails struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// MessageResponse is the body of not-found and delete responses
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes v as the JSON response body with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// WriteJSONError writes an error envelope describing err
func WriteJSONError(w http.ResponseWriter, statusCode int, message string, err error) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   message,
		Details: detailsFor(err),
	})
}

// writeNotFound writes the 404 body shared by every by-id route
func writeNotFound(w http.ResponseWriter) {
	WriteJSON(w, http.StatusNotFound, MessageResponse{Message: msgEmployeeNotFound})
}

func detailsFor(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{Message: ""}
	}

	var castErr *domain.CastError
	if errors.As(err, &castErr) {
		return ErrorDetails{Name: "CastError", Message: castErr.Error()}
	}
	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		return ErrorDetails{Name: "StoreError", Message: storeErr.Error()}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return ErrorDetails{Name: "SyntaxError", Message: err.Error()}
	}
	return ErrorDetails{Message: err.Error()}
}
