package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/satishbabariya/rowmap/internal/core/coerce"
)

// Sentinel errors. Every error produced by the engine matches at least one
// of them through errors.Is. A constructor failure also matches the
// sentinels of the error its constructor returned.
var (
	// ErrDuplicateName indicates a mapping name is already registered.
	ErrDuplicateName = errors.New("rowmap: duplicate mapping name")

	// ErrUnknownMapping indicates a lookup for an unregistered mapping.
	ErrUnknownMapping = errors.New("rowmap: unknown mapping")

	// ErrMissingColumn indicates a row lacks a column a mapping requires.
	ErrMissingColumn = errors.New("rowmap: missing column")

	// ErrCoercion indicates a value could not be converted.
	ErrCoercion = coerce.ErrCoercion

	// ErrNoMatchingConstructor indicates no constructor accepts the
	// declared argument types.
	ErrNoMatchingConstructor = errors.New("rowmap: no matching constructor")

	// ErrInvalidMapping indicates a definition failed static validation.
	ErrInvalidMapping = errors.New("rowmap: invalid mapping")

	// ErrConstructorFailed indicates a constructor returned an error.
	ErrConstructorFailed = errors.New("rowmap: constructor failed")
)

// Error codes carried by MappingError.
const (
	CodeDuplicateName         = "R1001"
	CodeUnknownMapping        = "R1002"
	CodeMissingColumn         = "R1003"
	CodeCoercion              = "R1004"
	CodeNoMatchingConstructor = "R1005"
	CodeInvalidMapping        = "R1006"
	CodeConstructorFailed     = "R1007"
)

// MappingError carries the context of a mapping failure.
type MappingError struct {
	// Code is the error code.
	Code string

	// Mapping is the definition name.
	Mapping string

	// Spec is the index of the failing result spec, or -1.
	Spec int

	// Column is the offending column, if any.
	Column string

	// Message is the human-readable description.
	Message string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rowmap [%s]", e.Code)
	if e.Mapping != "" {
		fmt.Fprintf(&b, " mapping %s", e.Mapping)
	}
	if e.Spec >= 0 {
		fmt.Fprintf(&b, " result %d", e.Spec+1)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// Unwrap returns the underlying error.
func (e *MappingError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *MappingError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// NewDuplicateNameError reports a second registration of name.
func NewDuplicateNameError(name string) *MappingError {
	return &MappingError{
		Code:    CodeDuplicateName,
		Mapping: name,
		Spec:    -1,
		Message: "a mapping with this name is already registered",
		Cause:   ErrDuplicateName,
	}
}

// NewUnknownMappingError reports a lookup of an unregistered name.
func NewUnknownMappingError(name string) *MappingError {
	return &MappingError{
		Code:    CodeUnknownMapping,
		Mapping: name,
		Spec:    -1,
		Message: "no mapping with this name is registered",
		Cause:   ErrUnknownMapping,
	}
}

// NewMissingColumnError reports a required column absent from a row.
func NewMissingColumnError(mapping string, spec int, column string) *MappingError {
	return &MappingError{
		Code:    CodeMissingColumn,
		Mapping: mapping,
		Spec:    spec,
		Column:  column,
		Message: fmt.Sprintf("column %q is missing from the row", column),
		Cause:   ErrMissingColumn,
	}
}

// NewCoercionError reports a column value that failed to coerce.
func NewCoercionError(mapping string, spec int, column string, cause error) *MappingError {
	return &MappingError{
		Code:    CodeCoercion,
		Mapping: mapping,
		Spec:    spec,
		Column:  column,
		Message: fmt.Sprintf("column %q: %v", column, cause),
		Cause:   cause,
	}
}

// NewNoMatchingConstructorError reports that typeName has no constructor
// accepting the declared argument types.
func NewNoMatchingConstructorError(mapping string, spec int, typeName string, declared []coerce.Type) *MappingError {
	names := make([]string, len(declared))
	for i, d := range declared {
		names[i] = d.String()
	}
	return &MappingError{
		Code:    CodeNoMatchingConstructor,
		Mapping: mapping,
		Spec:    spec,
		Message: fmt.Sprintf("type %s has no constructor (%s)", typeName, strings.Join(names, ", ")),
		Cause:   ErrNoMatchingConstructor,
	}
}

// NewInvalidMappingError reports a static validation failure.
func NewInvalidMappingError(mapping string, spec int, format string, args ...any) *MappingError {
	return &MappingError{
		Code:    CodeInvalidMapping,
		Mapping: mapping,
		Spec:    spec,
		Message: fmt.Sprintf(format, args...),
		Cause:   ErrInvalidMapping,
	}
}

// NewConstructorFailedError reports an error returned by a constructor.
func NewConstructorFailedError(mapping string, spec int, ctor string, cause error) *MappingError {
	return &MappingError{
		Code:    CodeConstructorFailed,
		Mapping: mapping,
		Spec:    spec,
		Message: fmt.Sprintf("%s: %v", ctor, cause),
		Cause:   errors.Join(ErrConstructorFailed, cause),
	}
}

// IsMissingColumn checks if an error is a missing column error.
func IsMissingColumn(err error) bool {
	return errors.Is(err, ErrMissingColumn)
}

// IsCoercion checks if an error is a coercion error.
func IsCoercion(err error) bool {
	return errors.Is(err, ErrCoercion)
}

// IsUnknownMapping checks if an error is an unknown mapping error.
func IsUnknownMapping(err error) bool {
	return errors.Is(err, ErrUnknownMapping)
}
