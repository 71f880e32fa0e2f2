package soilsense

import (
	"errors"

	"github.com/kailas-cloud/soilsense/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrMissingField       = domain.ErrMissingField
	ErrInvalidField       = domain.ErrInvalidField
	ErrModelUnavailable   = domain.ErrModelUnavailable
	ErrInference          = domain.ErrInference
	ErrInvalidCoordinates = domain.ErrInvalidCoordinates
)

// MissingField returns the name of the absent field carried by err.
func MissingField(err error) (string, bool) {
	var mf *domain.MissingFieldError
	if errors.As(err, &mf) {
		return mf.Field, true
	}
	return "", false
}
