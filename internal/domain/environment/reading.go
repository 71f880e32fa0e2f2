// Package environment holds the transient humidity/elevation reading that feeds
// the two environmental columns of the feature vector.
package environment

import (
	"fmt"
	"math"
)

// Source is the acquisition mode that produced a reading.
type Source string

const (
	// SourceCoordinates looks up weather and elevation for explicit lat/lon.
	SourceCoordinates Source = "coordinates"
	// SourceLocation derives lat/lon from the caller's device or IP.
	SourceLocation Source = "location"
	// SourceManual takes the values as typed by the user.
	SourceManual Source = "manual"
)

// IsValid checks if the source is supported.
func (s Source) IsValid() bool {
	return s == SourceCoordinates || s == SourceLocation || s == SourceManual
}

// ParseSource validates a raw mode string.
func ParseSource(s string) (Source, error) {
	src := Source(s)
	if !src.IsValid() {
		return "", fmt.Errorf("invalid source %q", s)
	}
	return src, nil
}

// Value is a float that may be unavailable.
type Value struct {
	v  float64
	ok bool
}

// Known creates an available value. Non-finite input yields Unavailable.
func Known(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{v: v, ok: true}
}

// Unavailable is the zero Value.
func Unavailable() Value { return Value{} }

// FromPtr maps nil to Unavailable.
func FromPtr(p *float64) Value {
	if p == nil {
		return Value{}
	}
	return Known(*p)
}

// Get returns the value and whether it is available.
func (v Value) Get() (float64, bool) { return v.v, v.ok }

// Available reports whether the value is known.
func (v Value) Available() bool { return v.ok }

// Or returns the value, or fallback when unavailable.
func (v Value) Or(fallback float64) float64 {
	if v.ok {
		return v.v
	}
	return fallback
}

// Ptr returns nil when unavailable.
func (v Value) Ptr() *float64 {
	if !v.ok {
		return nil
	}
	f := v.v
	return &f
}

// Reading is one humidity/elevation observation.
type Reading struct {
	Source      Source
	HumidityPct Value
	ElevationM  Value
	Latitude    Value
	Longitude   Value
	// Place is a display-only location name; it never reaches the models.
	Place string
}

// Merge fills unavailable fields of r from prev. Source and coordinates stay r's.
func (r Reading) Merge(prev Reading) Reading {
	if !r.HumidityPct.Available() {
		r.HumidityPct = prev.HumidityPct
	}
	if !r.ElevationM.Available() {
		r.ElevationM = prev.ElevationM
	}
	return r
}

// Empty reports whether neither environmental value is known.
func (r Reading) Empty() bool {
	return !r.HumidityPct.Available() && !r.ElevationM.Available()
}
