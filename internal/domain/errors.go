package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling (OCP compliance).
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found.
	// Ownership mismatches deliberately produce the same error so that
	// callers cannot probe for the existence of other users' resources.
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrQuotaExceeded is a normal business outcome, not a system fault.
	// Handlers map it to 429 with an actionable message.
	ErrQuotaExceeded = errors.New("message quota exceeded")

	// ErrUnavailable indicates a backing store (database, cache) could not
	// be reached. Fatal for the request, surfaced as a server error.
	ErrUnavailable = errors.New("infrastructure unavailable")
)

// QuotaExceededError carries the limit that was hit so handlers can build
// an actionable response. Matches ErrQuotaExceeded via errors.Is.
type QuotaExceededError struct {
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("message limit of %d reached", e.Limit)
}

func (e *QuotaExceededError) StatusCode() int { return http.StatusTooManyRequests }

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
