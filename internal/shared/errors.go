package shared

import "errors"

var (
	// ErrUnauthenticated indicates no principal is associated with the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden indicates the principal lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates a single-row lookup returned no row.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates input rejected before any external call was made.
	ErrValidation = errors.New("validation failed")
	// ErrTransport indicates a network or provider failure.
	ErrTransport = errors.New("transport failure")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
