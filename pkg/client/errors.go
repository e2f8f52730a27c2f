package client

import (
	"errors"

	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
)

// Sentinel errors for common error conditions.
var (
	// ErrConnection indicates a database connection error.
	ErrConnection = errors.New("rowmap: connection error")

	// ErrQuery indicates the database rejected a query.
	ErrQuery = errors.New("rowmap: query error")

	// ErrUnknownMapping indicates a mapping name that was never registered.
	ErrUnknownMapping = domain.ErrUnknownMapping

	// ErrMissingColumn indicates a row lacking a column its mapping requires.
	ErrMissingColumn = domain.ErrMissingColumn

	// ErrCoercion indicates a column value that could not be converted.
	ErrCoercion = domain.ErrCoercion

	// ErrNoMatchingConstructor indicates a constructor result no
	// constructor of its type accepts.
	ErrNoMatchingConstructor = domain.ErrNoMatchingConstructor
)

// MappingError is the rich error returned for registration and row
// mapping failures.
type MappingError = domain.MappingError

// IsUnknownMapping checks if an error is an unknown mapping error.
func IsUnknownMapping(err error) bool {
	return errors.Is(err, ErrUnknownMapping)
}

// IsMissingColumn checks if an error is a missing column error.
func IsMissingColumn(err error) bool {
	return errors.Is(err, ErrMissingColumn)
}

// IsCoercion checks if an error is a coercion error.
func IsCoercion(err error) bool {
	return errors.Is(err, ErrCoercion)
}

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}
