package order

import (
	"errors"
	"fmt"
)

// ValidationError signals a precondition failure caught before any
// repository call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func newValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrFinalizedIDMissing signals a finalized marker without a stored order id.
// The invariant says a marker is only ever written next to an id, so this is
// an internal inconsistency, not a user error.
var ErrFinalizedIDMissing = errors.New("order finalized but no stored order id")
