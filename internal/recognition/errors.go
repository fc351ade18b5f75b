package recognition

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is a response the Recognition API answered with a non-2xx
// status. It carries the server-supplied error message when the body
// contained one, so the UI can surface it verbatim. Transport failures
// (no response at all) are returned as plain wrapped errors instead.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("recognition API returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("recognition API returned status %d", e.StatusCode)
}

// ServerMessage returns the server-supplied error message, satisfying
// the capture pipeline's server-error contract.
func (e *APIError) ServerMessage() string { return e.Message }

// newAPIError builds an APIError from a raw response body, extracting
// the "error" (or "message") field when the body is JSON.
func newAPIError(status int, body string) *APIError {
	apiErr := &APIError{StatusCode: status}

	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err == nil {
		if parsed.Error != "" {
			apiErr.Message = parsed.Error
			return apiErr
		}
		if parsed.Message != "" {
			apiErr.Message = parsed.Message
			return apiErr
		}
	}
	apiErr.Message = strings.TrimSpace(body)
	return apiErr
}

// IsNotFoundError returns true if the error is a 404 response.
func IsNotFoundError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
