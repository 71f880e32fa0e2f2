package session

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/soilsense/internal/domain/environment"
)

// readingRow is the JSON shape of a cached reading.
type readingRow struct {
	Source      string   `json:"source,omitempty"`
	HumidityPct *float64 `json:"humidity_pct,omitempty"`
	ElevationM  *float64 `json:"elevation_m,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Place       string   `json:"place,omitempty"`
}

func readingToJSON(r environment.Reading) ([]byte, error) {
	data, err := json.Marshal(readingRow{
		Source:      string(r.Source),
		HumidityPct: r.HumidityPct.Ptr(),
		ElevationM:  r.ElevationM.Ptr(),
		Latitude:    r.Latitude.Ptr(),
		Longitude:   r.Longitude.Ptr(),
		Place:       r.Place,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal reading: %w", err)
	}
	return data, nil
}

func readingFromJSON(data []byte) (environment.Reading, error) {
	var row readingRow
	if err := json.Unmarshal(data, &row); err != nil {
		return environment.Reading{}, fmt.Errorf("unmarshal reading: %w", err)
	}
	return environment.Reading{
		Source:      environment.Source(row.Source),
		HumidityPct: environment.FromPtr(row.HumidityPct),
		ElevationM:  environment.FromPtr(row.ElevationM),
		Latitude:    environment.FromPtr(row.Latitude),
		Longitude:   environment.FromPtr(row.Longitude),
		Place:       row.Place,
	}, nil
}
