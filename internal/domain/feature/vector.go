package feature

import (
	"math"

	"github.com/kailas-cloud/soilsense/internal/domain"
)

// Vector is one immutable, canonically ordered model input.
type Vector struct {
	values [Width]float64
}

// Build validates named values and orders them by Canonical.
// Missing fields fail with MissingFieldError (first absent column in canonical order),
// non-finite values fail with InvalidFieldError, out-of-range values are clamped.
// Keys not in the schema are ignored.
func Build(fields map[string]float64) (Vector, error) {
	var v Vector
	for i, spec := range Canonical {
		raw, ok := fields[spec.Name]
		if !ok {
			return Vector{}, domain.NewMissingField(spec.Name)
		}
		if math.IsNaN(raw) || math.IsInf(raw, 0) {
			return Vector{}, &domain.InvalidFieldError{Field: spec.Name, Value: raw}
		}
		v.values[i] = spec.Clamp(raw)
	}
	return v, nil
}

// Values returns a copy of the values in canonical order.
func (v Vector) Values() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values[:])
	return out
}

// Get returns the value of a named column.
func (v Vector) Get(name string) (float64, bool) {
	i := Canonical.Index(name)
	if i < 0 {
		return 0, false
	}
	return v.values[i], true
}

// Map returns the vector as name -> value.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.values))
	for i, spec := range Canonical {
		m[spec.Name] = v.values[i]
	}
	return m
}

// Len is always Canonical.Len().
func (v Vector) Len() int { return len(v.values) }
