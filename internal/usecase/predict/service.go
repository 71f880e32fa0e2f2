package predict

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/domain/crop"
	"github.com/kailas-cloud/soilsense/internal/domain/feature"
	"github.com/kailas-cloud/soilsense/internal/domain/prediction"
)

// Service turns a feature vector into a fertility verdict and, for fertile soil,
// a crop recommendation. Predictions are never cached or retried.
type Service struct {
	fertility domain.Model
	crop      domain.Model
	policy    prediction.Policy
	catalog   crop.Catalog
}

// New creates a predictor. Either model may be nil when loading failed;
// Predict then fails with domain.ErrModelUnavailable.
func New(fertility, cropModel domain.Model, policy prediction.Policy, catalog crop.Catalog) *Service {
	return &Service{fertility: fertility, crop: cropModel, policy: policy, catalog: catalog}
}

// Ready reports whether both models are loaded.
func (s *Service) Ready() bool {
	return s.fertility != nil && s.crop != nil
}

// Catalog returns the crop catalog in use.
func (s *Service) Catalog() crop.Catalog { return s.catalog }

// Policy returns the threshold policy in use.
func (s *Service) Policy() prediction.Policy { return s.policy }

// Predict runs the fertility model and, only when fertile, the crop model.
func (s *Service) Predict(ctx context.Context, v feature.Vector) (prediction.Result, error) {
	if !s.Ready() {
		return prediction.Result{}, domain.ErrModelUnavailable
	}

	values := v.Values()

	out, err := s.invoke(ctx, s.fertility, domain.ModelFertility, values)
	if err != nil {
		return prediction.Result{}, err
	}

	score := s.fertilityScore(out)
	verdict := s.policy.Classify(score)
	if verdict == prediction.Infertile {
		return prediction.NewResult(verdict, crop.None, score, -1), nil
	}

	out, err = s.invoke(ctx, s.crop, domain.ModelCrop, values)
	if err != nil {
		return prediction.Result{}, err
	}

	idx := cropIndex(out)
	return prediction.NewResult(verdict, s.catalog.Label(idx), score, idx), nil
}

func (s *Service) invoke(
	ctx context.Context, m domain.Model, role string, values []float64,
) (domain.Output, error) {
	out, err := m.Predict(ctx, values)
	if err != nil {
		return domain.Output{}, domain.NewInference(role, err)
	}
	if err := out.Validate(); err != nil {
		return domain.Output{}, domain.NewInference(role, err)
	}
	return out, nil
}

// fertilityScore reads a scalar as-is. For a per-class distribution it uses P(class 1),
// or the arg-max class in class mode.
func (s *Service) fertilityScore(out domain.Output) float64 {
	if out.Scalar() {
		return out.Values[0]
	}
	if s.policy.Mode() == prediction.ModeClass {
		return float64(crop.ArgMax(out.Values))
	}
	return out.Values[1]
}

// cropIndex reads a scalar as a class index (truncated), a distribution by arg-max.
func cropIndex(out domain.Output) int {
	if out.Scalar() {
		return int(out.Values[0])
	}
	return crop.ArgMax(out.Values)
}

// String describes the service configuration for startup logs.
func (s *Service) String() string {
	return fmt.Sprintf("predictor(mode=%s threshold=%v crops=%d ready=%t)",
		s.policy.Mode(), s.policy.Threshold(), s.catalog.Len(), s.Ready())
}
