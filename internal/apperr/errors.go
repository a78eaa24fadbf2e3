// Package apperr defines the error taxonomy shared by all services.
// Handlers translate these to HTTP statuses at the request boundary;
// everything else wraps them with context via fmt.Errorf("%w").
package apperr

import "errors"

var (
	// ErrInvalidRequest indicates malformed or missing input fields.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnauthenticated indicates a missing, invalid or expired token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates a valid identity with insufficient role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates an absent entity. Booking cancellation also
	// collapses "not yours" into this, so callers cannot probe existence.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate unique key.
	ErrConflict = errors.New("conflict")

	// ErrDependencyUnavailable indicates a required peer service could not
	// be discovered or did not answer in time.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
