package chi

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/domain/crop"
	"github.com/kailas-cloud/soilsense/internal/domain/environment"
	"github.com/kailas-cloud/soilsense/internal/domain/feature"
	"github.com/kailas-cloud/soilsense/internal/logger"
	"github.com/kailas-cloud/soilsense/internal/usecase/acquire"
	evaluateuc "github.com/kailas-cloud/soilsense/internal/usecase/evaluate"
	healthuc "github.com/kailas-cloud/soilsense/internal/usecase/health"
)

const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the prediction API.
type Server struct {
	evaluate      *evaluateuc.Service
	health        *healthuc.Service
	schema        feature.Schema
	catalog       crop.Catalog
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. schema is the effective input schema
// (canonical order, configured defaults).
func NewServer(
	evaluate *evaluateuc.Service,
	health *healthuc.Service,
	schema feature.Schema,
	catalog crop.Catalog,
) *Server {
	s := &Server{
		evaluate: evaluate,
		health:   health,
		schema:   schema,
		catalog:  catalog,
	}
	s.errorHandlers = []errorHandler{
		missingFieldHandler,
		invalidFieldHandler,
		sentinelHandler(domain.ErrUnknownSource, http.StatusBadRequest, ErrorResponseCodeInvalidSource),
		sentinelHandler(domain.ErrInvalidCoordinates, http.StatusBadRequest, ErrorResponseCodeInvalidLocation),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrModelUnavailable, http.StatusServiceUnavailable, ErrorResponseCodeModelUnavailable),
		sentinelHandler(domain.ErrInference, http.StatusBadGateway, ErrorResponseCodeInferenceFailed),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/predictions", s.CreatePrediction)
		r.Get("/environment", s.GetEnvironment)
		r.Get("/schema", s.GetSchema)
		r.Get("/crops", s.ListCrops)
		r.Delete("/sessions/{session}", s.DeleteSession)
	})
}

// CreatePrediction handles POST /api/v1/predictions.
func (s *Server) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	var req PredictionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx := r.Context()
	if req.SessionID != "" {
		ctx = logger.With(ctx, zap.String("session_id", req.SessionID))
	}
	out, err := s.evaluate.Evaluate(ctx, evaluateuc.Request{
		SessionID:   req.SessionID,
		Soil:        req.Soil,
		Environment: acquireRequest(r, req.Environment),
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := PredictionResponse{
		Fertility:      out.Result.Fertility().String(),
		Fertile:        bool(out.Result.Fertility()),
		Crop:           out.Result.Crop(),
		FertilityScore: out.Result.Score(),
		Features:       out.Features.Map(),
		Environment:    environmentToResponse(out.Environment),
	}
	if idx := out.Result.CropIndex(); idx >= 0 {
		resp.CropIndex = &idx
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetEnvironment handles GET /api/v1/environment.
func (s *Server) GetEnvironment(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Mode        string
		SessionID   string
		Latitude    *float64
		Longitude   *float64
		IP          string
		HumidityPct *float64
		ElevationM  *float64
	}
	query := r.URL.Query()
	binds := []struct {
		name     string
		required bool
		dest     any
	}{
		{"mode", true, &params.Mode},
		{"session_id", false, &params.SessionID},
		{"lat", false, &params.Latitude},
		{"lon", false, &params.Longitude},
		{"ip", false, &params.IP},
		{"humidity_pct", false, &params.HumidityPct},
		{"elevation_m", false, &params.ElevationM},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, b.required, b.name, query, b.dest); err != nil {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest,
				"Invalid format for parameter "+b.name+": "+err.Error())
			return
		}
	}

	env, err := s.evaluate.Environment(r.Context(), params.SessionID, acquireRequest(r, EnvironmentRequest{
		Mode:        params.Mode,
		Latitude:    params.Latitude,
		Longitude:   params.Longitude,
		IP:          params.IP,
		HumidityPct: params.HumidityPct,
		ElevationM:  params.ElevationM,
	}))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, environmentToResponse(env))
}

// GetSchema handles GET /api/v1/schema.
func (s *Server) GetSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SchemaResponse{Fields: s.schema})
}

// ListCrops handles GET /api/v1/crops.
func (s *Server) ListCrops(w http.ResponseWriter, _ *http.Request) {
	labels := s.catalog.Labels()
	items := make([]CropItem, len(labels))
	for i, l := range labels {
		items[i] = CropItem{Index: i, Label: l}
	}
	writeJSON(w, http.StatusOK, CropsResponse{Items: items, None: crop.None, Unknown: crop.Unknown})
}

// DeleteSession handles DELETE /api/v1/sessions/{session}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.evaluate.ClearSession(r.Context(), chi.URLParam(r, "session")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// acquireRequest maps the wire request. Location mode without an explicit IP uses the caller's.
// An empty mode means manual entry.
func acquireRequest(r *http.Request, e EnvironmentRequest) acquire.Request {
	src := environment.Source(e.Mode)
	if e.Mode == "" {
		src = environment.SourceManual
	}
	ip := e.IP
	if ip == "" && src == environment.SourceLocation {
		ip = clientIP(r)
	}
	return acquire.Request{
		Source:      src,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		IP:          ip,
		HumidityPct: e.HumidityPct,
		ElevationM:  e.ElevationM,
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() {
		return ""
	}
	return ip.String()
}

func environmentToResponse(r environment.Reading) EnvironmentResponse {
	return EnvironmentResponse{
		Source:      string(r.Source),
		HumidityPct: r.HumidityPct.Ptr(),
		ElevationM:  r.ElevationM.Ptr(),
		Latitude:    r.Latitude.Ptr(),
		Longitude:   r.Longitude.Ptr(),
		Place:       r.Place,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnknownSource,
		domain.ErrInvalidCoordinates,
		domain.ErrNotFound,
		domain.ErrModelUnavailable,
		domain.ErrInference,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// missingFieldHandler reports which input the user left empty.
func missingFieldHandler(w http.ResponseWriter, err error, _ string) bool {
	var mfe *domain.MissingFieldError
	if !errors.As(err, &mfe) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    ErrorResponseCodeMissingField,
		Message: mfe.Error(),
		Field:   mfe.Field,
	})
	return true
}

func invalidFieldHandler(w http.ResponseWriter, err error, _ string) bool {
	var ife *domain.InvalidFieldError
	if !errors.As(err, &ife) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    ErrorResponseCodeInvalidField,
		Message: domain.ErrInvalidField.Error() + ": " + ife.Field,
		Field:   ife.Field,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
