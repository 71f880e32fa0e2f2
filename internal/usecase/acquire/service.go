package acquire

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/domain/environment"
	"github.com/kailas-cloud/soilsense/internal/domain/geo"
	"github.com/kailas-cloud/soilsense/internal/logger"
	"github.com/kailas-cloud/soilsense/internal/metrics"
)

// Request describes how the caller wants humidity and elevation resolved.
type Request struct {
	Source      environment.Source
	Latitude    *float64
	Longitude   *float64
	IP          string
	HumidityPct *float64
	ElevationM  *float64
}

// Service resolves an EnvironmentalReading from one of three acquisition modes.
// Lookup failures never surface as errors: the affected value becomes unavailable.
type Service struct {
	weather   WeatherLookup
	elevation ElevationLookup
	geocoder  Geocoder
	locator   Locator
	fallback  geo.Point
}

// New creates an acquisition service. Any collaborator may be nil (disabled).
// fallback is used in location mode when the locator is missing or fails.
func New(
	weather WeatherLookup, elevation ElevationLookup,
	geocoder Geocoder, locator Locator, fallback geo.Point,
) *Service {
	return &Service{
		weather:   weather,
		elevation: elevation,
		geocoder:  geocoder,
		locator:   locator,
		fallback:  fallback,
	}
}

// Acquire resolves a reading. Only an unknown source is an error.
func (s *Service) Acquire(ctx context.Context, req Request) (environment.Reading, error) {
	switch req.Source {
	case environment.SourceManual:
		return environment.Reading{
			Source:      environment.SourceManual,
			HumidityPct: environment.FromPtr(req.HumidityPct),
			ElevationM:  environment.FromPtr(req.ElevationM),
		}, nil
	case environment.SourceCoordinates:
		if req.Latitude == nil || req.Longitude == nil {
			logger.FromContext(ctx).Warn("Coordinates missing, environment unavailable")
			return environment.Reading{Source: environment.SourceCoordinates}, nil
		}
		p, err := geo.NewPoint(*req.Latitude, *req.Longitude)
		if err != nil {
			logger.FromContext(ctx).Warn("Invalid coordinates, environment unavailable", zap.Error(err))
			return environment.Reading{Source: environment.SourceCoordinates}, nil
		}
		return s.lookup(ctx, environment.SourceCoordinates, p, ""), nil
	case environment.SourceLocation:
		p, place := s.locate(ctx, req.IP)
		return s.lookup(ctx, environment.SourceLocation, p, place), nil
	default:
		return environment.Reading{}, fmt.Errorf("%w: %q", domain.ErrUnknownSource, req.Source)
	}
}

// locate resolves the caller's position. Without a public IP the locator would answer
// with the server's own position, so the fallback is used instead.
func (s *Service) locate(ctx context.Context, ip string) (geo.Point, string) {
	if s.locator == nil {
		return s.fallback, ""
	}
	if ip == "" {
		logger.FromContext(ctx).Debug("No public caller IP, using fallback coordinates",
			zap.Stringer("fallback", s.fallback))
		return s.fallback, ""
	}
	p, place, err := s.locator.Locate(ctx, ip)
	if err != nil {
		metrics.AcquisitionLookupsTotal.WithLabelValues("location", "error").Inc()
		logger.FromContext(ctx).Warn("Location lookup failed, using fallback coordinates",
			zap.String("ip", ip),
			zap.Stringer("fallback", s.fallback),
			zap.Error(err),
		)
		return s.fallback, ""
	}
	metrics.AcquisitionLookupsTotal.WithLabelValues("location", "success").Inc()
	return p, place
}

// lookup runs weather, elevation and (if place is unknown) reverse geocoding concurrently.
func (s *Service) lookup(
	ctx context.Context, src environment.Source, p geo.Point, place string,
) environment.Reading {
	r := environment.Reading{
		Source:    src,
		Latitude:  environment.Known(p.Lat),
		Longitude: environment.Known(p.Lon),
		Place:     place,
	}

	g, gctx := errgroup.WithContext(ctx)

	if s.weather != nil {
		g.Go(func() error {
			h, err := s.weather.Humidity(gctx, p)
			if s.observe(gctx, "weather", p, err) {
				r.HumidityPct = environment.Known(h)
			}
			return nil
		})
	}
	if s.elevation != nil {
		g.Go(func() error {
			e, err := s.elevation.Elevation(gctx, p)
			if s.observe(gctx, "elevation", p, err) {
				r.ElevationM = environment.Known(e)
			}
			return nil
		})
	}
	if s.geocoder != nil && place == "" {
		g.Go(func() error {
			name, err := s.geocoder.Reverse(gctx, p)
			if s.observe(gctx, "geocoding", p, err) {
				r.Place = name
			}
			return nil
		})
	}

	_ = g.Wait() // goroutines never fail; errors degrade to unavailable

	return r
}

// observe records the lookup outcome and reports whether it succeeded.
func (s *Service) observe(ctx context.Context, provider string, p geo.Point, err error) bool {
	if err != nil {
		metrics.AcquisitionLookupsTotal.WithLabelValues(provider, "error").Inc()
		logger.FromContext(ctx).Warn("Environmental lookup failed",
			zap.String("provider", provider),
			zap.Stringer("point", p),
			zap.Error(err),
		)
		return false
	}
	metrics.AcquisitionLookupsTotal.WithLabelValues(provider, "success").Inc()
	return true
}
