package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(Middleware("/metrics"))
	r.Post("/api/v1/predictions", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"fertility":"Fértil"}`))
	})
	r.Get("/api/v1/schema", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	r.Delete("/api/v1/sessions/{session}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# scrape"))
	})
	return r
}

func serve(r http.Handler, method, path string) int {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, path, http.NoBody))
	return rr.Code
}

func TestMiddleware_RecordsRoute(t *testing.T) {
	r := newRouter()
	counter := httpRequestsTotal.WithLabelValues("POST", "/api/v1/predictions", "200")
	before := testutil.ToFloat64(counter)

	if code := serve(r, "POST", "/api/v1/predictions"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("requests_total delta = %v, want 1", got)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
	if testutil.ToFloat64(httpRequestsInFlight) != 0 {
		t.Error("in-flight gauge should return to zero")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := newRouter()
	tests := []struct {
		method, path, route, status string
	}{
		{"GET", "/api/v1/schema", "/api/v1/schema", "503"},
		{"DELETE", "/api/v1/sessions/abc", "/api/v1/sessions/{session}", "204"},
		{"GET", "/nowhere", "unmatched", "404"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			serve(r, tc.method, tc.path)
			if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.route, tc.status)); v < 1 {
				t.Errorf("expected %s %s %s recorded, got %v", tc.method, tc.route, tc.status, v)
			}
		})
	}
}

func TestMiddleware_SessionIDNotALabel(t *testing.T) {
	r := newRouter()
	serve(r, "DELETE", "/api/v1/sessions/secret-123")
	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("DELETE", "/api/v1/sessions/secret-123", "204")); v != 0 {
		t.Errorf("raw path leaked into labels: %v", v)
	}
}

func TestMiddleware_SkipsScrapeEndpoint(t *testing.T) {
	r := newRouter()
	serve(r, "GET", "/metrics")
	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/metrics", "200")); v != 0 {
		t.Errorf("scrape endpoint should not be recorded, got %v", v)
	}
}

func TestRouteLabel_NoChiContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/x", http.NoBody)
	if got := routeLabel(req); got != "unmatched" {
		t.Errorf("routeLabel = %q, want unmatched", got)
	}
}
