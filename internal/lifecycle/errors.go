package lifecycle

import (
	"errors"
	"fmt"

	"event-rsvp/internal/storage"
)

var (
	// ErrNotFound is returned when a guest id does not resolve.
	ErrNotFound = storage.ErrNotFound
	// ErrDuplicateEmail is returned when a registration reuses an email
	// already on file.
	ErrDuplicateEmail = storage.ErrDuplicateEmail
	// ErrInvalidToken is returned when a scanned code matches no guest.
	ErrInvalidToken = errors.New("invalid code")
	// ErrNotApproved is returned when the guest behind a code has not
	// been approved (or was rejected).
	ErrNotApproved = errors.New("guest not approved")
	// ErrAlreadyCheckedIn is returned on a repeated check-in attempt.
	ErrAlreadyCheckedIn = errors.New("guest already checked in")
)

// ValidationError reports a bad or missing registration field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
