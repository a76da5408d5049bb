package parkingclient

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned after the backend answers 401. The session has already been
// cleared and the navigator sent to the login page by the time the caller sees it.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx, non-401 response from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// NetworkError means the request never produced an HTTP response
type NetworkError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err came from a rejected session
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// StatusCode returns the HTTP status carried by err, or 0 when there is none
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	if IsUnauthorized(err) {
		return 401
	}
	return 0
}

// UserMessage returns the text to show an operator for err
func UserMessage(err error) string {
	var apiErr *APIError
	var netErr *NetworkError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "Session expired, please log in again"
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.As(err, &netErr):
		return "Network error, please check your connection"
	default:
		return err.Error()
	}
}
