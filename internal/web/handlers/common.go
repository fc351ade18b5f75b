// Package handlers implements the HTTP handlers for the kiosk web server.
// Most endpoints proxy the remote Recognition API so the browser talks to a
// single same-origin surface.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/attendly/facekiosk/internal/recognition"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondUpstreamError maps a Recognition API failure onto the proxy
// response. Backend errors keep their status code and message so the kiosk
// page can show them verbatim; transport failures become a 502.
func respondUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *recognition.APIError
	if errors.As(err, &apiErr) {
		respondError(w, apiErr.StatusCode, apiErr.Message)
		return
	}
	respondError(w, http.StatusBadGateway, "recognition service unreachable")
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
