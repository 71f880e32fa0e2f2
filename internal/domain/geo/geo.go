package geo

import (
	"fmt"

	"github.com/kailas-cloud/soilsense/internal/domain"
)

// Point is a WGS84 latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// NewPoint validates that latitude is in [-90,90] and longitude in [-180,180].
func NewPoint(lat, lon float64) (Point, error) {
	if !ValidateCoordinates(lat, lon) {
		return Point{}, fmt.Errorf("%w: lat=%v lon=%v", domain.ErrInvalidCoordinates, lat, lon)
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
// NaN fails both comparisons and is rejected.
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// String formats the point as "lat,lon", the form most lookup APIs accept.
func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}
