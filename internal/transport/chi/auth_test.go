package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveAuth(keys []string, method, path, header string) *httptest.ResponseRecorder {
	handler := BearerAuthMiddleware(keys)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(method, path, http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestBearerAuth(t *testing.T) {
	keys := []string{"key1", "key2"}
	tests := []struct {
		name   string
		keys   []string
		method string
		path   string
		header string
		want   int
	}{
		{"no keys disables auth", nil, http.MethodPost, "/api/v1/predictions", "", http.StatusOK},
		{"only empty keys disables auth", []string{"", ""}, http.MethodPost, "/api/v1/predictions", "", http.StatusOK},
		{"missing header", keys, http.MethodPost, "/api/v1/predictions", "", http.StatusUnauthorized},
		{"basic scheme", keys, http.MethodPost, "/api/v1/predictions", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"empty token", keys, http.MethodPost, "/api/v1/predictions", "Bearer ", http.StatusUnauthorized},
		{"wrong key", keys, http.MethodPost, "/api/v1/predictions", "Bearer wrong", http.StatusUnauthorized},
		{"key prefix", keys, http.MethodPost, "/api/v1/predictions", "Bearer key", http.StatusUnauthorized},
		{"first key", keys, http.MethodPost, "/api/v1/predictions", "Bearer key1", http.StatusOK},
		{"second key", keys, http.MethodGet, "/api/v1/environment", "Bearer key2", http.StatusOK},
		{"lowercase scheme", keys, http.MethodPost, "/api/v1/predictions", "bearer key1", http.StatusOK},
		{"health", keys, http.MethodGet, "/health", "", http.StatusOK},
		{"metrics", keys, http.MethodGet, "/metrics", "", http.StatusOK},
		{"schema read", keys, http.MethodGet, "/api/v1/schema", "", http.StatusOK},
		{"crops read", keys, http.MethodGet, "/api/v1/crops", "", http.StatusOK},
		{"crops write", keys, http.MethodPost, "/api/v1/crops", "", http.StatusUnauthorized},
		{"session delete", keys, http.MethodDelete, "/api/v1/sessions/s1", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveAuth(tt.keys, tt.method, tt.path, tt.header)
			if rr.Code != tt.want {
				t.Errorf("got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestBearerAuth_UnauthorizedResponse(t *testing.T) {
	rr := serveAuth([]string{"secret"}, http.MethodPost, "/api/v1/predictions", "Token secret")

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if got := rr.Header().Get("WWW-Authenticate"); got != `Bearer realm="soilsense"` {
		t.Errorf("WWW-Authenticate: got %q", got)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != ErrorResponseCodeUnauthorized {
		t.Errorf("error code: got %s, want %s", errResp.Code, ErrorResponseCodeUnauthorized)
	}
	if errResp.Message != "authorization header must use Bearer scheme" {
		t.Errorf("message: got %q", errResp.Message)
	}
}
