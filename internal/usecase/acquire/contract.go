package acquire

import (
	"context"

	"github.com/kailas-cloud/soilsense/internal/domain/geo"
)

// WeatherLookup returns relative humidity (%) at a point.
type WeatherLookup interface {
	Humidity(ctx context.Context, p geo.Point) (float64, error)
}

// ElevationLookup returns elevation in meters at a point.
type ElevationLookup interface {
	Elevation(ctx context.Context, p geo.Point) (float64, error)
}

// Geocoder resolves a display name for a point. Display only.
type Geocoder interface {
	Reverse(ctx context.Context, p geo.Point) (string, error)
}

// Locator resolves the caller's approximate position from an IP address.
// An empty ip means "the address the request came from".
type Locator interface {
	Locate(ctx context.Context, ip string) (geo.Point, string, error)
}
