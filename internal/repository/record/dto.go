package record

import (
	"time"

	"github.com/lib/pq"

	"github.com/kailas-cloud/soilsense/internal/domain/prediction"
)

// row is one soil_predictions row.
type row struct {
	SessionID string          `db:"session_id"`
	Source    string          `db:"source"`
	Features  pq.Float64Array `db:"features"`
	Fertile   bool            `db:"fertile"`
	Score     float64         `db:"score"`
	Crop      string          `db:"crop"`
	CropIndex int             `db:"crop_index"`
	CreatedAt time.Time       `db:"created_at"`
}

func toRow(rec prediction.Record) row {
	return row{
		SessionID: rec.SessionID,
		Source:    string(rec.Source),
		Features:  pq.Float64Array(rec.Features.Values()),
		Fertile:   bool(rec.Result.Fertility()),
		Score:     rec.Result.Score(),
		Crop:      rec.Result.Crop(),
		CropIndex: rec.Result.CropIndex(),
		CreatedAt: rec.CreatedAt,
	}
}
