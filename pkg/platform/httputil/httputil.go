// Package httputil holds the JSON response and decode helpers shared by all
// HTTP handlers.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "revloop/pkg/domain-errors"
)

// MaxBodyBytes caps request bodies. Objection texts and patch lists are
// small; anything near this limit is abuse.
const MaxBodyBytes = 1 << 20

// WriteJSON writes v as a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error to its HTTP status and writes the standard
// error envelope. Internal errors omit the description so internals never
// leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	body := map[string]string{"error": string(code)}
	if status < http.StatusInternalServerError {
		body["error_description"] = dErrors.MessageOf(err)
	}
	WriteJSON(w, status, body)
}

// Decode reads and validates a JSON request body into T. On failure it writes
// the error response itself and returns ok=false; handlers just return.
func Decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (T, bool) {
	var req T

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		logger.WarnContext(r.Context(), "request decode failed", "path", r.URL.Path, "error", err.Error())
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return req, false
	}

	if v, ok := any(req).(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			WriteError(w, err)
			return req, false
		}
	}
	return req, true
}
