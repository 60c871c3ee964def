package lazada

import (
	"errors"
	"fmt"
)

// APIError is a transport-level failure: a non-2xx response from the platform.
// It carries enough context to diagnose the call without re-issuing it.
type APIError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lazada: %s returned status %d: %s", e.Path, e.StatusCode, e.Body)
}

// AuthorizationError is the platform rejecting an authorization code or a
// refresh token: an application-level failure inside a 2xx token response.
type AuthorizationError struct {
	Path      string
	Code      StatusCode
	Message   string
	RequestID string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("lazada: %s rejected with code %s: %s", e.Path, e.Code, e.Message)
}

// IsAuthorizationError reports whether err is a rejected token exchange.
func IsAuthorizationError(err error) bool {
	var authErr *AuthorizationError
	return errors.As(err, &authErr)
}
