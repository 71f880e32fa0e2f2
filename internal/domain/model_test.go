package domain

import (
	"errors"
	"math"
	"testing"
)

func TestOutput_Validate(t *testing.T) {
	if err := (Output{}).Validate(); err == nil {
		t.Error("empty output should fail")
	}
	if err := (Output{Values: []float64{0.2, math.NaN()}}).Validate(); err == nil {
		t.Error("NaN output should fail")
	}
	if err := (Output{Values: []float64{0.2, 0.8}}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOutput_Scalar(t *testing.T) {
	if !(Output{Values: []float64{1}}).Scalar() {
		t.Error("single value is scalar")
	}
	if (Output{Values: []float64{0.1, 0.9}}).Scalar() {
		t.Error("distribution is not scalar")
	}
}

func TestInferenceError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInference(ModelCrop, cause)
	if !errors.Is(err, ErrInference) {
		t.Error("should match ErrInference")
	}
	if !errors.Is(err, cause) {
		t.Error("should match cause")
	}
	if got := err.Error(); got != "inference failed: crop model: connection reset" {
		t.Errorf("Error() = %q", got)
	}
}

func TestMissingFieldError(t *testing.T) {
	err := NewMissingField("ph")
	if !errors.Is(err, ErrMissingField) {
		t.Error("should match ErrMissingField")
	}
	if err.Error() != "missing field: ph" {
		t.Errorf("Error() = %q", err.Error())
	}
}
