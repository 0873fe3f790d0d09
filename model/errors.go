package model

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a missing record. Idempotent operations (cancel, unlock
// of an already-unlocked channel) treat it as a successful no-op.
var ErrNotFound = errors.New("record not found")

// ValidationError reports malformed user input (duration strings, clock
// times, unknown channel or user references). Never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError anywhere in its chain.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
