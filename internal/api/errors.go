package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/hydroponics-core/internal/auth"
	"github.com/nerrad567/hydroponics-core/internal/hydroponics"
	"github.com/nerrad567/hydroponics-core/internal/validation"
)

// Error represents a structured error response.
type Error struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// errorResponse wraps Error so every failure body has a single "error" key.
type errorResponse struct {
	Error Error `json:"error"`
}

// Common error codes.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeUnauthorized   = "unauthorised"
	ErrCodeForbidden      = "forbidden"
	ErrCodeInternal       = "internal_error"
	ErrCodeValidation     = "validation_error"
	ErrCodeTooLarge       = "request_too_large"
	ErrCodeRateLimited    = "rate_limited"
	ErrCodeMethodNotAllow = "method_not_allowed"
)

// User-facing messages.
const (
	msgNoCredentials = "Authentication credentials were not provided."
	msgInvalidToken  = "Given token not valid for any token type."
	msgNotOwner      = "You are not the owner of the hydroponic system."
	msgNotFound      = "Not found."
	msgInvalidInput  = "invalid input"
	msgInternal      = "internal server error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: Error{
		Code:    code,
		Message: message,
	}})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeValidationError writes a 400 carrying the per-field messages.
func writeValidationError(w http.ResponseWriter, ve *validation.Error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: Error{
		Code:    ErrCodeValidation,
		Message: msgInvalidInput,
		Fields:  ve.Fields,
	}})
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, msgNotFound)
}

// writeUnauthorized writes a 401 error response with a Bearer challenge.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeForbidden writes a 403 error response.
func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, ErrCodeForbidden, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeServiceError maps an error returned by hydroponics.Service to a
// response. Unrecognised errors are logged and reported as a bare 500 so
// storage details never reach the client.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := validation.As(err); ok {
		writeValidationError(w, ve)
		return
	}

	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		writeUnauthorized(w, msgNoCredentials)
	case errors.Is(err, auth.ErrForbidden):
		writeForbidden(w, msgNotOwner)
	case errors.Is(err, auth.ErrNotFound), errors.Is(err, hydroponics.ErrSystemNotFound):
		writeNotFound(w)
	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Context().Value(ctxKeyRequestID),
			"error", err,
		)
		writeInternalError(w, msgInternal)
	}
}
