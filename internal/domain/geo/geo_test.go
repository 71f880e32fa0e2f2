package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/soilsense/internal/domain"
)

func TestNewPoint(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		valid    bool
	}{
		{"mexico city", 19.432608, -99.133209, true},
		{"poles and antimeridian", 90, -180, true},
		{"lat too high", 90.1, 0, false},
		{"lon too low", 0, -180.5, false},
		{"nan", math.NaN(), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPoint(tt.lat, tt.lon)
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, domain.ErrInvalidCoordinates) {
				t.Errorf("expected ErrInvalidCoordinates, got %v", err)
			}
		})
	}
}

func TestPoint_String(t *testing.T) {
	p := Point{Lat: 19.5, Lon: -99.25}
	if got := p.String(); got != "19.500000,-99.250000" {
		t.Errorf("String() = %q", got)
	}
}
