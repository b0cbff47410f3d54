// Package errors defines the validation and service error taxonomy for
// supplier operations. Callers match error kinds with errors.Is; the
// ValidationError carrier exposes the offending field and value for
// structured reporting.
package errors

import (
	"fmt"
)

var (
	// ErrInvalidType reports an argument that is not an acceptable value
	// for its parameter, such as a nil product record.
	ErrInvalidType = fmt.Errorf("invalid type")
	// ErrOutOfRange reports a supplier identifier outside the open
	// interval (0, 1e10).
	ErrOutOfRange = fmt.Errorf("out of range")
	// ErrMissingContactInfo reports a supplier created with neither an
	// email nor an address.
	ErrMissingContactInfo = fmt.Errorf("missing contact info")
	// ErrMissingProductID reports a product added before the persistence
	// layer assigned it an identifier.
	ErrMissingProductID = fmt.Errorf("missing product id")

	ErrNotFound      = fmt.Errorf("not found")
	ErrDuplicateName = fmt.Errorf("duplicate name")
	ErrInvalidInput  = fmt.Errorf("invalid input")
)

// ValidationError wraps one of the sentinel kinds above together with
// the field that failed validation and the value it was given.
type ValidationError struct {
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v (field %q)", e.Err, e.Value, e.Field)
}

// Unwrap exposes the sentinel kind so errors.Is works on the wrapper.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError for field with the given
// kind and offending value.
func NewValidationError(kind error, field string, value any) *ValidationError {
	return &ValidationError{Field: field, Value: value, Err: kind}
}
