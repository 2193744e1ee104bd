// Package services implements the domain logic between the HTTP layer and
// the repositories. Services return sentinel errors that controllers map to
// the API error taxonomy.
package services

import "errors"

var (
	// ErrNotFound maps to a 404 response.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden maps to a 403 response.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict maps to a 422 response with a single message.
	ErrConflict = errors.New("conflict")
)

// ValidationError carries per-field messages and maps to a 422 response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
