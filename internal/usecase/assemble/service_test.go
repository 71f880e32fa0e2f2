package assemble

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/domain/environment"
	"github.com/kailas-cloud/soilsense/internal/domain/feature"
)

func sampleSoil() feature.Soil {
	return feature.Soil{
		SoilType:         feature.Float(2),
		PH:               feature.Float(6.5),
		OrganicMatterPct: feature.Float(3.0),
		Conductivity:     feature.Float(1.2),
		Nitrogen:         feature.Float(0.8),
		Phosphorus:       feature.Float(15),
		Potassium:        feature.Float(120),
		Density:          feature.Float(1.3),
	}
}

func TestAssemble_EndToEnd(t *testing.T) {
	a := New(feature.Canonical)
	env := environment.Reading{
		Source:      environment.SourceManual,
		HumidityPct: environment.Known(55),
		ElevationM:  environment.Known(1000),
	}

	v, err := a.Assemble(sampleSoil(), env, environment.Reading{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{2, 6.5, 3.0, 1.2, 0.8, 15, 120, 1.3, 55, 1000}
	if diff := cmp.Diff(want, v.Values()); diff != "" {
		t.Errorf("vector mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_FallsBackToDefault(t *testing.T) {
	a := New(feature.Canonical)
	env := environment.Reading{Source: environment.SourceCoordinates}

	v, err := a.Assemble(sampleSoil(), env, environment.Reading{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h, _ := v.Get(feature.HumidityPct); h != 0 {
		t.Errorf("humidity = %v, want 0", h)
	}
	if e, _ := v.Get(feature.ElevationM); e != 0 {
		t.Errorf("elevation = %v, want 0", e)
	}
}

func TestAssemble_ConfiguredDefaults(t *testing.T) {
	a := New(feature.Canonical.WithDefaults(map[string]float64{
		feature.HumidityPct: 60,
		feature.ElevationM:  2240,
	}))

	v, err := a.Assemble(sampleSoil(), environment.Reading{}, environment.Reading{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h, _ := v.Get(feature.HumidityPct); h != 60 {
		t.Errorf("humidity = %v, want 60", h)
	}
	if e, _ := v.Get(feature.ElevationM); e != 2240 {
		t.Errorf("elevation = %v, want 2240", e)
	}
}

func TestAssemble_LastKnownBeatsDefault(t *testing.T) {
	a := New(feature.Canonical)
	env := environment.Reading{ElevationM: environment.Known(800)}
	last := environment.Reading{HumidityPct: environment.Known(70), ElevationM: environment.Known(100)}

	v, err := a.Assemble(sampleSoil(), env, last)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h, _ := v.Get(feature.HumidityPct); h != 70 {
		t.Errorf("humidity = %v, want last-known 70", h)
	}
	if e, _ := v.Get(feature.ElevationM); e != 800 {
		t.Errorf("elevation = %v, want fresh 800", e)
	}
}

func TestAssemble_MissingSoil(t *testing.T) {
	a := New(feature.Canonical)
	soil := sampleSoil()
	soil.Density = nil

	_, err := a.Assemble(soil, environment.Reading{}, environment.Reading{})
	var mf *domain.MissingFieldError
	if !errors.As(err, &mf) || mf.Field != feature.Density {
		t.Errorf("expected missing density, got %v", err)
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	a := New(feature.Canonical)
	env := environment.Reading{HumidityPct: environment.Known(40)}
	first, _ := a.Assemble(sampleSoil(), env, environment.Reading{})
	second, _ := a.Assemble(sampleSoil(), env, environment.Reading{})
	if first != second {
		t.Error("same inputs produced different vectors")
	}
}
