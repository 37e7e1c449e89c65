package httpx

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse represents a JSON error response.
// Only contains an error field to avoid leaking internal details.
type ErrorResponse struct {
	Error string `json:"error"`
}

// noStore sets cache control headers to prevent page caching.
// Auth redirects carry session cookies and must never be cached.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.Header().Set("Pragma", "no-cache")
}

// writeJSON writes a JSON response with the proper content type and status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("failed to encode JSON response", zap.Error(err))
	}
}

// BadRequest writes a 400 Bad Request response with a generic error message.
// The detailed reason is logged server-side but not exposed to the client.
func BadRequest(w http.ResponseWriter, r *http.Request, reason string) {
	zap.L().Info("bad request", zap.String("path", r.URL.Path), zap.String("reason", reason))
	writeJSONError(w, http.StatusBadRequest, "invalid_request")
}

// ServerError writes a 500 Internal Server Error response.
// Should be used for unexpected errors that are not the client's fault.
func ServerError(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusInternalServerError, "server_error")
}

// BadGateway writes a 502 when the upstream application cannot be reached.
func BadGateway(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusBadGateway, "upstream_unavailable")
}

// writeJSONError is a helper that writes a JSON error response.
func writeJSONError(w http.ResponseWriter, statusCode int, errorCode string) {
	writeJSON(w, statusCode, ErrorResponse{Error: errorCode})
}
