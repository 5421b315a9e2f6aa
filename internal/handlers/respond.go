package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"adda/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

type createdResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return false
	}
	return true
}

// writeStoreError maps store sentinels onto status codes. Anything else is
// logged and surfaced as a 500 carrying the error message.
func writeStoreError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrMissingField), errors.Is(err, store.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrAlreadyModerated):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error("store error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
