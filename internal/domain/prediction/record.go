package prediction

import (
	"time"

	"github.com/kailas-cloud/soilsense/internal/domain/environment"
	"github.com/kailas-cloud/soilsense/internal/domain/feature"
)

// Record is an append-only audit entry for one completed prediction.
type Record struct {
	SessionID string
	Source    environment.Source
	Features  feature.Vector
	Result    Result
	CreatedAt time.Time
}
