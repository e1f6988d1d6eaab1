package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jpalmer/traveldex/backend/internal/domain"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON serializes v as the response body with the given status.
// Encoding failures are logged, not surfaced: the status line is already gone.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// decode parses the request body into v. A missing or malformed body is a
// client error; callers map it to 422.
func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

// badRequest writes a 422 for a request rejected before reaching the service
// layer (e.g. missing body, unparseable field).
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error: errorDetail{Code: "validation_error", Message: message},
	})
}

// notFound writes a 404. The caller supplies the human-readable message
// (e.g. "trip not found") because the handler is the layer that knows what
// was being looked up.
func notFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, errorResponse{
		Error: errorDetail{Code: "not_found", Message: message},
	})
}

// serviceError maps a service-layer error to its HTTP response: 404 for
// domain.ErrNotFound, 422 for domain.ErrValidation, 500 otherwise.
// resource names what was being operated on, for the 404 message.
func serviceError(w http.ResponseWriter, r *http.Request, err error, resource string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		notFound(w, resource+" not found")
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: errorDetail{Code: "validation_error", Message: unwrapMessage(err)},
		})
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorDetail{Code: "internal_error", Message: "internal server error"},
		})
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "service.TripService.Create: validation error: name is
// required" → "name is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
