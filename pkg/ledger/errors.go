package ledger

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrMissingField  = errors.New("required field is empty")
	ErrBadAmount     = errors.New("amount is not a finite number")
	ErrBadDate       = errors.New("unparseable date")
	ErrMissingColumn = errors.New("required column missing from header")
)

// ValidationError describes a rejected ledger row.
type ValidationError struct {
	Entity string // "transaction" or "vendor"
	ID     string // row identifier, when known
	Field  string // offending field, when known
	Cause  error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.ID != "" && e.Field != "":
		return fmt.Sprintf("%s %s (field %s): %v", e.Entity, e.ID, e.Field, e.Cause)
	case e.ID != "":
		return fmt.Sprintf("%s %s: %v", e.Entity, e.ID, e.Cause)
	case e.Field != "":
		return fmt.Sprintf("%s (field %s): %v", e.Entity, e.Field, e.Cause)
	default:
		return fmt.Sprintf("%s: %v", e.Entity, e.Cause)
	}
}

// Unwrap returns the underlying cause for error chain support.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *ValidationError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// IsRejection reports whether err marks a rejected row rather than a
// failure of the load itself.
func IsRejection(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
