package platform

import (
	"fmt"
	"time"
)

// APIError represents a general platform API failure.
// It includes the HTTP status code and the platform's error message.
type APIError struct {
	// Operation is the client operation that failed (e.g., "list_deployments").
	Operation string

	// StatusCode is the HTTP status code (0 if the request never completed).
	StatusCode int

	// Message is the error message returned by the platform.
	Message string

	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("platform %s failed (status %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("platform %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// AuthError represents a rejected API token (HTTP 401 or 403).
type AuthError struct {
	// Message is the error message from the platform.
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("platform authentication failed: %s", e.Message)
}

// RateLimitError represents a rate limit rejection (HTTP 429).
type RateLimitError struct {
	// RetryAfter is the duration to wait before retrying (if provided).
	RetryAfter time.Duration

	// Message is the error message from the platform.
	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("platform rate limit exceeded (retry after %s): %s", e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("platform rate limit exceeded: %s", e.Message)
}

// NotFoundError represents a deletion of an identifier the platform does
// not know. Deleting a non-existent deployment is a failure, not a no-op.
type NotFoundError struct {
	// ID is the deployment identifier that was not found.
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("deployment %q not found", e.ID)
}

// DecodeError represents a platform response that could not be decoded
// into a well-typed deployment record. Malformed records fail fast here
// so the selection engine never sees untyped data.
type DecodeError struct {
	// Field is the offending field, when known.
	Field string

	// Cause is the underlying decode or parse error.
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("platform response decode failed on %s: %v", e.Field, e.Cause)
	}
	return fmt.Sprintf("platform response decode failed: %v", e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}
