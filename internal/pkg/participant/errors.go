package participant

import (
	"errors"
	"fmt"
	"net"
)

// AuthenticationFailure is reported when the token endpoint rejects the
// client credentials. The cached client secret has been cleared by the time
// it is returned, so the next attempt asks for it again.
type AuthenticationFailure struct {
	Status int
	Reason string
}

func (e *AuthenticationFailure) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("failed to get auth token: %d: %s", e.Status, e.Reason)
	}
	return fmt.Sprintf("failed to get auth token: %d", e.Status)
}

// NetworkError wraps a connection failure or timeout. Calls are not retried.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the call gave up waiting for a response
func (e *NetworkError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// APIError is a non-2xx response from the participant API
type APIError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// IsConflict reports whether err is an APIError with status 409
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 409
}
