package assemble

import (
	"fmt"

	"github.com/kailas-cloud/soilsense/internal/domain/environment"
	"github.com/kailas-cloud/soilsense/internal/domain/feature"
)

// Assembler reconciles soil inputs with an environmental reading into a feature vector.
// It performs no I/O and holds no mutable state.
type Assembler struct {
	humidityDefault  float64
	elevationDefault float64
}

// New creates an Assembler whose fallbacks come from schema defaults.
func New(schema feature.Schema) *Assembler {
	a := &Assembler{}
	if s, ok := schema.Spec(feature.HumidityPct); ok {
		a.humidityDefault = s.Default
	}
	if s, ok := schema.Spec(feature.ElevationM); ok {
		a.elevationDefault = s.Default
	}
	return a
}

// Assemble builds a vector from soil inputs and env.
// An unavailable environmental value falls back to lastKnown, then to the schema default.
// Pass a zero Reading as lastKnown when the session has nothing cached.
func (a *Assembler) Assemble(
	soil feature.Soil, env, lastKnown environment.Reading,
) (feature.Vector, error) {
	fields := soil.Fields()

	resolved := env.Merge(lastKnown)
	fields[feature.HumidityPct] = resolved.HumidityPct.Or(a.humidityDefault)
	fields[feature.ElevationM] = resolved.ElevationM.Or(a.elevationDefault)

	v, err := feature.Build(fields)
	if err != nil {
		return feature.Vector{}, fmt.Errorf("build feature vector: %w", err)
	}
	return v, nil
}
