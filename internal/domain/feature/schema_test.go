package feature

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCanonical_Names(t *testing.T) {
	want := []string{
		"soil_type", "ph", "organic_matter_pct", "conductivity", "nitrogen",
		"phosphorus", "potassium", "density", "humidity_pct", "elevation_m",
	}
	if diff := cmp.Diff(want, Canonical.Names()); diff != "" {
		t.Errorf("column order mismatch (-want +got):\n%s", diff)
	}
}

func TestCanonical_Width(t *testing.T) {
	if Canonical.Len() != Width {
		t.Fatalf("Canonical has %d columns, Width is %d", Canonical.Len(), Width)
	}
	for i, spec := range Canonical {
		if spec.Name == "" {
			t.Errorf("column %d has no name", i)
		}
	}
	fields := make(map[string]float64, Width)
	for _, name := range Canonical.Names() {
		fields[name] = 1
	}
	v, err := Build(fields)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if v.Len() != Width {
		t.Errorf("vector width %d, want %d", v.Len(), Width)
	}
}

func TestSchema_Index(t *testing.T) {
	if got := Canonical.Index(HumidityPct); got != 8 {
		t.Errorf("Index(humidity_pct) = %d, want 8", got)
	}
	if got := Canonical.Index("unknown"); got != -1 {
		t.Errorf("Index(unknown) = %d, want -1", got)
	}
}

func TestSchema_WithDefaults(t *testing.T) {
	s := Canonical.WithDefaults(map[string]float64{
		HumidityPct: 150,
		ElevationM:  2240,
		"unknown":   1,
	})

	h, _ := s.Spec(HumidityPct)
	if h.Default != 100 {
		t.Errorf("humidity default = %v, want clamped 100", h.Default)
	}
	e, _ := s.Spec(ElevationM)
	if e.Default != 2240 {
		t.Errorf("elevation default = %v, want 2240", e.Default)
	}
	orig, _ := Canonical.Spec(ElevationM)
	if orig.Default != 0 {
		t.Errorf("Canonical was mutated: %v", orig.Default)
	}
}

func TestSpec_Clamp(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		in   float64
		want float64
	}{
		{"below min", Spec{Min: 0, Max: 14}, -1, 0},
		{"above max", Spec{Min: 0, Max: 14}, 20, 14},
		{"inside", Spec{Min: 0, Max: 14}, 6.5, 6.5},
		{"integer rounds", Spec{Min: 1, Max: 4, Integer: true}, 2.4, 2},
		{"integer clamps then rounds", Spec{Min: 1, Max: 4, Integer: true}, 0.2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.Clamp(tt.in); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSoil_Fields(t *testing.T) {
	s := Soil{PH: Float(6.5), Density: Float(1.3)}
	got := s.Fields()
	want := map[string]float64{PH: 6.5, Density: 1.3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}
