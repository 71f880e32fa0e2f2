// Package feature defines the canonical model input schema and the immutable
// vector built from it. Every consumer of the models reads the column order
// from Canonical; nothing else declares it.
package feature

import "math"

// Field names, in no particular order. Position is defined by Canonical.
const (
	SoilType         = "soil_type"
	PH               = "ph"
	OrganicMatterPct = "organic_matter_pct"
	Conductivity     = "conductivity"
	Nitrogen         = "nitrogen"
	Phosphorus       = "phosphorus"
	Potassium        = "potassium"
	Density          = "density"
	HumidityPct      = "humidity_pct"
	ElevationM       = "elevation_m"
)

// Spec describes one column of the model input.
type Spec struct {
	Name    string  `json:"name"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Integer bool    `json:"integer"`
}

// Clamp limits v to the field domain. Integer fields are rounded to the nearest code.
func (s Spec) Clamp(v float64) float64 {
	if v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	if s.Integer {
		v = math.Round(v)
	}
	return v
}

// Schema is an ordered list of field specs.
type Schema []Spec

// Width is the number of model input columns.
const Width = 10

// Canonical is the column order the fertility and crop models were trained with.
var Canonical = Schema(canonicalColumns[:])

// A literal longer than Width does not compile; a shorter one leaves unnamed columns.
var canonicalColumns = [Width]Spec{
	{Name: SoilType, Min: 1, Max: 4, Default: 1, Integer: true},
	{Name: PH, Min: 0, Max: 14},
	{Name: OrganicMatterPct, Min: 0, Max: 100},
	{Name: Conductivity, Min: 0, Max: math.MaxFloat64},
	{Name: Nitrogen, Min: 0, Max: math.MaxFloat64},
	{Name: Phosphorus, Min: 0, Max: math.MaxFloat64},
	{Name: Potassium, Min: 0, Max: math.MaxFloat64},
	{Name: Density, Min: 0, Max: math.MaxFloat64},
	{Name: HumidityPct, Min: 0, Max: 100},
	{Name: ElevationM, Min: -500, Max: 9000},
}

// Len is the number of columns.
func (s Schema) Len() int { return len(s) }

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Index returns the position of a named column, or -1.
func (s Schema) Index(name string) int {
	for i, f := range s {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Spec looks up a column by name.
func (s Schema) Spec(name string) (Spec, bool) {
	if i := s.Index(name); i >= 0 {
		return s[i], true
	}
	return Spec{}, false
}

// WithDefaults returns a copy of the schema with default values overridden by name.
// Unknown names are ignored.
func (s Schema) WithDefaults(overrides map[string]float64) Schema {
	out := make(Schema, len(s))
	copy(out, s)
	for i := range out {
		if v, ok := overrides[out[i].Name]; ok {
			out[i].Default = out[i].Clamp(v)
		}
	}
	return out
}
