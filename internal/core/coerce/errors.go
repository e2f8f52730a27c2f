package coerce

import (
	"errors"
	"fmt"
)

// ErrCoercion is matched by every error returned from Coerce and Normalize.
var ErrCoercion = errors.New("rowmap: coercion failed")

// Error describes a value that could not be converted.
type Error struct {
	Value  any
	From   Kind
	To     Type
	Reason string
}

func newError(v any, from Kind, to Type, reason string) *Error {
	return &Error{Value: v, From: from, To: to, Reason: reason}
}

// Error implements the error interface.
func (e *Error) Error() string {
	to := "a raw scalar"
	if e.To.IsValid() {
		to = e.To.String()
	}
	switch {
	case e.Value == nil:
		return fmt.Sprintf("cannot coerce null to %s: %s", to, e.Reason)
	case e.From == Invalid:
		return fmt.Sprintf("cannot coerce %T value %v to %s: %s", e.Value, e.Value, to, e.Reason)
	default:
		return fmt.Sprintf("cannot coerce %s value %v to %s: %s", e.From, e.Value, to, e.Reason)
	}
}

// Is reports whether target is ErrCoercion.
func (e *Error) Is(target error) bool {
	return target == ErrCoercion
}
