package acquire

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/domain/environment"
	"github.com/kailas-cloud/soilsense/internal/domain/geo"
	"github.com/kailas-cloud/soilsense/internal/transport/ipapi"
)

// --- Mocks ---

type mockWeather struct {
	humidity float64
	err      error
	calls    atomic.Int32
	seen     geo.Point
}

func (m *mockWeather) Humidity(_ context.Context, p geo.Point) (float64, error) {
	m.calls.Add(1)
	m.seen = p
	return m.humidity, m.err
}

type mockElevation struct {
	elevation float64
	err       error
}

func (m *mockElevation) Elevation(_ context.Context, _ geo.Point) (float64, error) {
	return m.elevation, m.err
}

type mockGeocoder struct {
	name  string
	err   error
	calls atomic.Int32
}

func (m *mockGeocoder) Reverse(_ context.Context, _ geo.Point) (string, error) {
	m.calls.Add(1)
	return m.name, m.err
}

type mockLocator struct {
	point geo.Point
	place string
	err   error
	ip    string
}

func (m *mockLocator) Locate(_ context.Context, ip string) (geo.Point, string, error) {
	m.ip = ip
	return m.point, m.place, m.err
}

var fallback = geo.Point{Lat: 19.432608, Lon: -99.133209}

func ptr(v float64) *float64 { return &v }

// --- Tests ---

func TestAcquire_Manual(t *testing.T) {
	w := &mockWeather{humidity: 10}
	svc := New(w, nil, nil, nil, fallback)

	r, err := svc.Acquire(context.Background(), Request{
		Source:      environment.SourceManual,
		HumidityPct: ptr(55),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h, _ := r.HumidityPct.Get(); h != 55 {
		t.Errorf("humidity = %v, want 55", h)
	}
	if r.ElevationM.Available() {
		t.Error("elevation was not entered and should be unavailable")
	}
	if w.calls.Load() != 0 {
		t.Error("manual mode must not call lookups")
	}
}

func TestAcquire_Coordinates(t *testing.T) {
	w := &mockWeather{humidity: 62}
	g := &mockGeocoder{name: "Toluca, México"}
	svc := New(w, &mockElevation{elevation: 2660}, g, nil, fallback)

	r, err := svc.Acquire(context.Background(), Request{
		Source:    environment.SourceCoordinates,
		Latitude:  ptr(19.29),
		Longitude: ptr(-99.65),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h, _ := r.HumidityPct.Get(); h != 62 {
		t.Errorf("humidity = %v", h)
	}
	if e, _ := r.ElevationM.Get(); e != 2660 {
		t.Errorf("elevation = %v", e)
	}
	if r.Place != "Toluca, México" {
		t.Errorf("place = %q", r.Place)
	}
	if w.seen != (geo.Point{Lat: 19.29, Lon: -99.65}) {
		t.Errorf("weather queried at %v", w.seen)
	}
}

func TestAcquire_LookupFailureDegrades(t *testing.T) {
	svc := New(
		&mockWeather{err: errors.New("503")},
		&mockElevation{elevation: 100},
		&mockGeocoder{err: errors.New("rate limited")},
		nil, fallback,
	)

	r, err := svc.Acquire(context.Background(), Request{
		Source: environment.SourceCoordinates, Latitude: ptr(1), Longitude: ptr(2),
	})
	if err != nil {
		t.Fatalf("lookup failures must not surface: %v", err)
	}
	if r.HumidityPct.Available() {
		t.Error("humidity should be unavailable after weather failure")
	}
	if e, _ := r.ElevationM.Get(); e != 100 {
		t.Errorf("elevation = %v, want 100", e)
	}
	if r.Place != "" {
		t.Errorf("place = %q, want empty", r.Place)
	}
}

func TestAcquire_InvalidCoordinatesDegrade(t *testing.T) {
	w := &mockWeather{humidity: 50}
	svc := New(w, nil, nil, nil, fallback)

	for _, req := range []Request{
		{Source: environment.SourceCoordinates, Latitude: ptr(91), Longitude: ptr(0)},
		{Source: environment.SourceCoordinates, Latitude: ptr(10)},
	} {
		r, err := svc.Acquire(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !r.Empty() {
			t.Errorf("expected empty reading, got %+v", r)
		}
	}
	if w.calls.Load() != 0 {
		t.Error("weather must not be called without valid coordinates")
	}
}

func TestAcquire_Location(t *testing.T) {
	loc := &mockLocator{point: geo.Point{Lat: 20.67, Lon: -103.35}, place: "Guadalajara, México"}
	g := &mockGeocoder{name: "ignored"}
	w := &mockWeather{humidity: 48}
	svc := New(w, nil, g, loc, fallback)

	r, err := svc.Acquire(context.Background(), Request{Source: environment.SourceLocation, IP: "8.8.8.8"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.ip != "8.8.8.8" {
		t.Errorf("locator got ip %q", loc.ip)
	}
	if r.Place != "Guadalajara, México" {
		t.Errorf("place = %q", r.Place)
	}
	if g.calls.Load() != 0 {
		t.Error("geocoder should be skipped when locator resolved a place")
	}
	if lat, _ := r.Latitude.Get(); lat != 20.67 {
		t.Errorf("latitude = %v", lat)
	}
}

func TestAcquire_LocationFallback(t *testing.T) {
	w := &mockWeather{humidity: 60}
	svc := New(w, nil, nil, &mockLocator{err: errors.New("reserved range")}, fallback)

	r, err := svc.Acquire(context.Background(), Request{Source: environment.SourceLocation, IP: "203.0.113.9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.seen != fallback {
		t.Errorf("weather queried at %v, want fallback %v", w.seen, fallback)
	}
	if h, _ := r.HumidityPct.Get(); h != 60 {
		t.Errorf("humidity = %v", h)
	}
}

func TestAcquire_LocationWithoutCallerIP(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","city":"Frankfurt","country":"Germany","lat":50.11,"lon":8.68}`))
	}))
	defer server.Close()

	w := &mockWeather{humidity: 60}
	svc := New(w, nil, nil, ipapi.New(ipapi.Config{BaseURL: server.URL}), fallback)

	r, err := svc.Acquire(context.Background(), Request{Source: environment.SourceLocation})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("ip-api called %d times without a caller IP", hits.Load())
	}
	if w.seen != fallback {
		t.Errorf("weather queried at %v, want fallback %v", w.seen, fallback)
	}
	if r.Place == "Frankfurt, Germany" {
		t.Error("place resolved from the server's own address")
	}
}

func TestAcquire_NoLocator(t *testing.T) {
	w := &mockWeather{humidity: 60}
	svc := New(w, nil, nil, nil, fallback)
	if _, err := svc.Acquire(context.Background(), Request{Source: environment.SourceLocation}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.seen != fallback {
		t.Errorf("weather queried at %v, want fallback", w.seen)
	}
}

func TestAcquire_UnknownSource(t *testing.T) {
	svc := New(nil, nil, nil, nil, fallback)
	_, err := svc.Acquire(context.Background(), Request{Source: "satellite"})
	if !errors.Is(err, domain.ErrUnknownSource) {
		t.Errorf("expected ErrUnknownSource, got %v", err)
	}
}
