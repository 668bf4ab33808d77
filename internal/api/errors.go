package api

import "fmt"

// The client sorts failures into three camps. Authentication failures force
// the session store to log out; everything else is handled at the boundary
// of the component that made the call.
//
//   - AuthError: the credential itself was rejected (401).
//   - APIError: a well-formed request the server refused (4xx/5xx other
//     than 401), carrying the server's message when it gave one.
//   - ValidationError: a malformed submission caught before any network
//     call is made.
//
// Transport failures (unreachable host, timeouts) stay plain wrapped errors
// from net/http.

// AuthError means the bearer credential was missing, expired or rejected.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Message
}

// APIError is a server-side refusal of a well-formed request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server rejected the request (HTTP %d)", e.StatusCode)
	}
	return e.Message
}

// ValidationError is a client-side rejection issued before submission.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
