// Package publish posts announcements to the X (Twitter) API.
package publish

import "fmt"

// AuthError is returned when the API rejects the credentials (401/403).
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (HTTP %d): %s", e.StatusCode, e.Message)
}

// TransportError is returned for network failures and unexpected API responses.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("post to %s failed: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("post to %s failed (HTTP %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("post to %s failed: %s", e.Endpoint, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
