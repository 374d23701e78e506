// Package apperr defines sentinel errors shared across service layers.
package apperr

import "errors"

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid indicates the request failed validation.
	ErrInvalid = errors.New("invalid")
	// ErrForbidden indicates the caller is not allowed to perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrUpstream indicates a third-party API rejected the request.
	ErrUpstream = errors.New("upstream rejected request")
	// ErrUnavailable indicates a third-party API could not be reached, kept
	// failing after retries, or is behind an open circuit breaker.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrDisabled indicates the integration has no credentials configured.
	ErrDisabled = errors.New("integration disabled")
)
