package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/mkeller/folio/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// respondError maps service errors to the uniform JSON envelope. Unexpected
// errors are logged and surfaced as a generic message.
func respondError(w http.ResponseWriter, what string, err error) {
	switch {
	case errors.Is(err, apperr.ErrDisabled):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("integration disabled"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrUpstream), errors.Is(err, apperr.ErrUnavailable):
		slog.Warn("upstream failure", slog.String("what", what), slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("failed to load "+what))
	default:
		slog.Error("request failed", slog.String("what", what), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
