package device

import (
	"errors"
	"fmt"
)

var ErrMissingField = errors.New("missing required field")

// FieldError reports a form field that is missing or cannot be parsed
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrMissingField) {
		return fmt.Sprintf("%v '%s'", e.Err, e.Field)
	}
	return fmt.Sprintf("invalid value '%s' for field '%s': %v", e.Value, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
