package domain

import (
	"context"
	"errors"
	"math"
)

// Model roles.
const (
	ModelFertility = "fertility"
	ModelCrop      = "crop"
)

// Model is the minimal capability the predictor needs from a pretrained classifier.
// Implementations must be safe for concurrent use and immutable after load.
// values is in canonical feature order.
type Model interface {
	Predict(ctx context.Context, values []float64) (Output, error)
}

// HealthChecker verifies model backend availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Output is the raw model response: a single score/class, or one value per class.
type Output struct {
	Values []float64
}

// Scalar reports whether the output holds a single value.
func (o Output) Scalar() bool { return len(o.Values) == 1 }

// Validate rejects empty and non-finite outputs.
func (o Output) Validate() error {
	if len(o.Values) == 0 {
		return errors.New("empty model output")
	}
	for _, v := range o.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("non-finite model output")
		}
	}
	return nil
}
