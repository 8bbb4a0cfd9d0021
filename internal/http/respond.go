package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"outlay/internal/core"
	"outlay/internal/store"
)

// errorBody is the uniform error shape: {"success":false,"message":...}.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// successBody acknowledges updates and deletes.
type successBody struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Success: false, Message: message})
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

// writeServiceError maps service errors onto the API contract: validation
// and malformed-id failures are 400, unresolvable ids are 404, and store
// failures surface as 400 with the error text.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrCostNotPositive),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, store.ErrInvalidID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
