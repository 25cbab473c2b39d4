package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"fresherjobs/marketplace-service/internal/apperr"
)

const maxBodyBytes = 1 << 20

func jsonOK(w http.ResponseWriter, v any) {
	jsonStatus(w, http.StatusOK, v)
}

func jsonCreated(w http.ResponseWriter, v any) {
	jsonStatus(w, http.StatusCreated, v)
}

func jsonStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "err", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	jsonStatus(w, code, map[string]string{"error": msg})
}

// writeErr maps an engine error to exactly one status code.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var ve *apperr.ValidationError
	var fe *apperr.ForbiddenError
	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, apperr.ErrUnauthenticated):
		jsonError(w, err.Error(), http.StatusUnauthorized)
	case errors.As(err, &fe):
		jsonError(w, fe.Reason, http.StatusForbidden)
	case errors.Is(err, apperr.ErrForbidden):
		jsonError(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, apperr.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, apperr.ErrConflict):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, apperr.ErrRateLimited):
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

// decode reads a JSON body into v. An empty body leaves v untouched when
// optional is true.
func decode(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
		return false
	}
	jsonError(w, "invalid JSON body", http.StatusBadRequest)
	return false
}
