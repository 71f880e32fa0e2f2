package evaluate

import (
	"context"

	"github.com/kailas-cloud/soilsense/internal/domain/environment"
	"github.com/kailas-cloud/soilsense/internal/domain/feature"
	"github.com/kailas-cloud/soilsense/internal/domain/prediction"
	"github.com/kailas-cloud/soilsense/internal/usecase/acquire"
)

// SessionStore keeps the last-known environmental reading per session.
// Load returns domain.ErrNotFound when the session has nothing cached.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (environment.Reading, error)
	Save(ctx context.Context, sessionID string, r environment.Reading) error
	Delete(ctx context.Context, sessionID string) error
}

// Recorder persists completed predictions.
type Recorder interface {
	Record(ctx context.Context, rec prediction.Record) error
}

// Acquirer resolves environmental readings.
type Acquirer interface {
	Acquire(ctx context.Context, req acquire.Request) (environment.Reading, error)
}

// Assembler builds feature vectors.
type Assembler interface {
	Assemble(soil feature.Soil, env, lastKnown environment.Reading) (feature.Vector, error)
}

// Predictor runs the two models.
type Predictor interface {
	Predict(ctx context.Context, v feature.Vector) (prediction.Result, error)
}
