package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField signals an incomplete feature input.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidField signals a non-finite or unparseable feature value.
	ErrInvalidField = errors.New("invalid field")
	// ErrModelUnavailable signals that a model handle was never loaded.
	ErrModelUnavailable = errors.New("models unavailable")
	// ErrInference signals a failed or unparseable model invocation.
	ErrInference = errors.New("inference failed")
	// ErrInvalidCoordinates signals latitude/longitude outside the valid range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrUnknownSource signals an unsupported environmental acquisition mode.
	ErrUnknownSource = errors.New("unknown environment source")
	// ErrQuotaExceeded signals that an external provider's call quota is spent.
	ErrQuotaExceeded = errors.New("provider quota exceeded")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
)

// MissingFieldError wraps ErrMissingField with the name of the absent field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField.Error(), e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// NewMissingField creates a missing field error.
func NewMissingField(field string) error {
	return &MissingFieldError{Field: field}
}

// InvalidFieldError wraps ErrInvalidField with the offending field and value.
type InvalidFieldError struct {
	Field string
	Value float64
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s: %s=%v", ErrInvalidField.Error(), e.Field, e.Value)
}

func (e *InvalidFieldError) Unwrap() error { return ErrInvalidField }

// InferenceError wraps ErrInference with the model role and the underlying cause.
type InferenceError struct {
	Model string
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s: %s model: %v", ErrInference.Error(), e.Model, e.Err)
}

func (e *InferenceError) Unwrap() []error { return []error{ErrInference, e.Err} }

// NewInference creates an inference error for the given model role.
func NewInference(model string, err error) error {
	return &InferenceError{Model: model, Err: err}
}
