package soilsense

import (
	"context"

	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/domain/environment"
	"github.com/kailas-cloud/soilsense/internal/domain/feature"
	"github.com/kailas-cloud/soilsense/internal/domain/prediction"
)

// Model is a pretrained classifier. values arrive in Schema() order.
// It returns a single score or class, or one value per class.
// Implementations must be safe for concurrent use.
type Model interface {
	Predict(ctx context.Context, values []float64) ([]float64, error)
}

// ModelFunc adapts a function to the Model interface.
type ModelFunc func(ctx context.Context, values []float64) ([]float64, error)

// Predict calls f.
func (f ModelFunc) Predict(ctx context.Context, values []float64) ([]float64, error) {
	return f(ctx, values)
}

// Soil holds the manually entered measurements. Nil means not provided.
type Soil struct {
	SoilType         *float64
	PH               *float64
	OrganicMatterPct *float64
	Conductivity     *float64
	Nitrogen         *float64
	Phosphorus       *float64
	Potassium        *float64
	Density          *float64
}

// Reading is an environmental observation. Nil values fall back to defaults.
type Reading struct {
	HumidityPct *float64
	ElevationM  *float64
}

// Field describes one model input column.
type Field struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
	Integer bool
}

// Result is the outcome of one prediction.
type Result struct {
	Fertility string // "Fértil" or "Infértil"
	Fertile   bool
	Crop      string
	Score     float64
	// CropIndex is -1 when the soil was infertile and the crop model skipped.
	CropIndex int
	Features  map[string]float64
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// modelAdapter wraps a public Model to satisfy domain.Model.
type modelAdapter struct {
	inner Model
}

func (a *modelAdapter) Predict(ctx context.Context, values []float64) (domain.Output, error) {
	out, err := a.inner.Predict(ctx, values)
	if err != nil {
		return domain.Output{}, err
	}
	return domain.Output{Values: out}, nil
}

func toDomainSoil(s Soil) feature.Soil {
	return feature.Soil{
		SoilType:         s.SoilType,
		PH:               s.PH,
		OrganicMatterPct: s.OrganicMatterPct,
		Conductivity:     s.Conductivity,
		Nitrogen:         s.Nitrogen,
		Phosphorus:       s.Phosphorus,
		Potassium:        s.Potassium,
		Density:          s.Density,
	}
}

func toDomainReading(r Reading) environment.Reading {
	return environment.Reading{
		Source:      environment.SourceManual,
		HumidityPct: environment.FromPtr(r.HumidityPct),
		ElevationM:  environment.FromPtr(r.ElevationM),
	}
}

func fromDomainResult(r prediction.Result, v feature.Vector) Result {
	return Result{
		Fertility: r.Fertility().String(),
		Fertile:   r.Fertility() == prediction.Fertile,
		Crop:      r.Crop(),
		Score:     r.Score(),
		CropIndex: r.CropIndex(),
		Features:  v.Map(),
	}
}

func fromSchema(s feature.Schema) []Field {
	out := make([]Field, len(s))
	for i, f := range s {
		out[i] = Field{Name: f.Name, Min: f.Min, Max: f.Max, Default: f.Default, Integer: f.Integer}
	}
	return out
}
