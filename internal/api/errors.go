package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthenticationUnavailable means no token could be obtained for the session.
var ErrAuthenticationUnavailable = errors.New("authentication unavailable")

// APIError is a non-2xx response from the rental API.
type APIError struct {
	StatusCode int      `json:"status_code"`
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("rental API error (%d): %s - %v", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("rental API error (%d): %s", e.StatusCode, e.Message)
}

// NewAPIError creates a new API error
func NewAPIError(statusCode int, message string, details ...string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message, Details: details}
}

// IsUnauthorized checks if an error is an unauthorized error
func IsUnauthorized(err error) bool { return hasStatus(err, http.StatusUnauthorized) }

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// TransportError means the request never produced an HTTP response: connection
// refused, DNS failure, timeout.
type TransportError struct {
	Operation string
	URL       string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error during %s to %s: %v", e.Operation, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err is, or wraps, a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
