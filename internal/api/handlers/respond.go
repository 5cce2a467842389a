package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/docspace-ai/docspace/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses. Not-found covers
// both missing and foreign-owned resources.
func writeError(w http.ResponseWriter, err error) {
	var ve *core.ValidationError
	var se *core.StorageError
	var ie *core.InferenceError

	switch {
	case errors.Is(err, core.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusBadRequest)
	case errors.As(err, &se), errors.As(err, &ie):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
