// Package apperrors defines the error kinds the core layers return. Only the
// HTTP handlers translate these into status codes.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a truly absent entity and one hidden from the
	// requester's view. Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the entity is visible to the requester but they lack
	// the rights for the attempted operation.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict signals a uniqueness violation (duplicate email/username).
	ErrConflict = errors.New("conflict")

	// ErrUnauthenticated covers missing, malformed, or expired credentials,
	// and tokens whose subject no longer exists.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError rejects a request before any state is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for a field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
