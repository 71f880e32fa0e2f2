package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/soilsense/internal/config"
	"github.com/kailas-cloud/soilsense/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/soilsense/internal/db/redis"
	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/domain/crop"
	"github.com/kailas-cloud/soilsense/internal/domain/feature"
	"github.com/kailas-cloud/soilsense/internal/domain/geo"
	"github.com/kailas-cloud/soilsense/internal/domain/prediction"
	logpkg "github.com/kailas-cloud/soilsense/internal/logger"
	"github.com/kailas-cloud/soilsense/internal/metrics"
	"github.com/kailas-cloud/soilsense/internal/model"
	quotarepo "github.com/kailas-cloud/soilsense/internal/repository/quota"
	recordrepo "github.com/kailas-cloud/soilsense/internal/repository/record"
	sessionrepo "github.com/kailas-cloud/soilsense/internal/repository/session"
	chiTransport "github.com/kailas-cloud/soilsense/internal/transport/chi"
	"github.com/kailas-cloud/soilsense/internal/transport/ipapi"
	"github.com/kailas-cloud/soilsense/internal/transport/nominatim"
	"github.com/kailas-cloud/soilsense/internal/transport/openelevation"
	"github.com/kailas-cloud/soilsense/internal/transport/openweather"
	"github.com/kailas-cloud/soilsense/internal/usecase/acquire"
	"github.com/kailas-cloud/soilsense/internal/usecase/assemble"
	evaluateuc "github.com/kailas-cloud/soilsense/internal/usecase/evaluate"
	healthuc "github.com/kailas-cloud/soilsense/internal/usecase/health"
	"github.com/kailas-cloud/soilsense/internal/usecase/predict"
	"github.com/kailas-cloud/soilsense/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level,
		zap.String("service", "soilsense"), zap.String("version", version.Version))
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting soilsense API server",
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	ctx := context.Background()

	// Register prediction metrics explicitly (no init())
	metrics.Register()

	// Session store (optional). Pass nil interfaces, not typed nil pointers.
	var (
		sessions   evaluateuc.SessionStore
		quotaStore acquire.QuotaStore
		dbPinger   healthuc.Pinger
	)
	if len(cfg.Database.Addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Database.Addrs,
			Username:   cfg.Database.Username,
			Password:   cfg.Database.Password,
			DB:         cfg.Database.DB,
			Standalone: cfg.Database.Standalone,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to session store")

		sessions = sessionrepo.New(store, time.Duration(cfg.Session.TTLHours)*time.Hour)
		quotaStore = quotarepo.New(store)
		dbPinger = store
	} else {
		logger.Warn("No database configured, session memory disabled")
	}

	// Prediction recorder (optional)
	var (
		recorder    evaluateuc.Recorder
		recorderPng healthuc.Pinger
	)
	if cfg.Recorder.Enabled {
		pg, err := postgres.Connect(ctx, postgres.Config{
			DSN:          cfg.Recorder.DSN,
			MaxOpenConns: cfg.Recorder.MaxOpenConns,
		})
		if err != nil {
			logger.Fatal("Failed to connect prediction recorder", zap.Error(err))
		}
		defer func() { _ = pg.Close() }()

		repo := recordrepo.New(pg)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatal("Failed to prepare prediction table", zap.Error(err))
		}
		recorder = repo
		recorderPng = repo
		logger.Info("Prediction recorder enabled")
	}

	// Models. A load failure keeps the server up; predictions report "models unavailable".
	models, err := model.Load(modelSpec(cfg.Models.Fertility), modelSpec(cfg.Models.Crop))
	if err != nil {
		logger.Error("Failed to load models", zap.Error(err))
	}
	if err := models.CheckMode(prediction.ThresholdMode(cfg.Prediction.ThresholdMode)); err != nil {
		logger.Fatal("Threshold mode does not match the fertility model", zap.Error(err))
	}
	var fertilityModel, cropModel domain.Model
	if models.Ready() {
		fertilityModel = predict.NewInstrumentedModel(models.Fertility, domain.ModelFertility, logger)
		cropModel = predict.NewInstrumentedModel(models.Crop, domain.ModelCrop, logger)
	}

	policy, err := prediction.NewPolicy(prediction.ThresholdMode(cfg.Prediction.ThresholdMode), cfg.Prediction.Threshold)
	if err != nil {
		logger.Fatal("Invalid prediction policy", zap.Error(err))
	}
	catalog, err := crop.New(cfg.Prediction.Crops)
	if err != nil {
		logger.Fatal("Invalid crop catalog", zap.Error(err))
	}
	schema := feature.Canonical.WithDefaults(cfg.Features.Defaults)

	predictor := predict.New(fertilityModel, cropModel, policy, catalog)
	logger.Info("Predictor ready", zap.Stringer("predictor", predictor))

	// Use case services
	acquirer := buildAcquirer(logpkg.ContextWithLogger(ctx, logger), cfg.Acquisition, quotaStore)
	evaluateSvc := evaluateuc.New(acquirer, assemble.New(schema), predictor, sessions, recorder)
	healthSvc := healthuc.New(dbPinger, models).WithRecorder(recorderPng)

	// Create chi server
	server := chiTransport.NewServer(evaluateSvc, healthSvc, schema, catalog)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware("/metrics"))
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func modelSpec(m config.ModelConfig) model.Spec {
	return model.Spec{
		Backend:   model.Backend(m.Backend),
		Path:      m.Path,
		URL:       m.URL,
		HealthURL: m.HealthURL,
		APIKey:    m.APIKey,
		Timeout:   time.Duration(m.TimeoutSec) * time.Second,
	}
}

// buildAcquirer wires the enabled lookup providers. Disabled ones stay nil interfaces.
// quotas may be nil; weather limits are then counted in memory only.
func buildAcquirer(ctx context.Context, cfg config.AcquisitionConfig, quotas acquire.QuotaStore) *acquire.Service {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second

	var (
		weather   acquire.WeatherLookup
		elevation acquire.ElevationLookup
		geocoder  acquire.Geocoder
		locator   acquire.Locator
	)
	if cfg.Weather.Enabled {
		weather = openweather.New(openweather.Config{
			BaseURL: cfg.Weather.BaseURL,
			APIKey:  cfg.Weather.APIKey,
			Timeout: timeout,
		})
		if cfg.Weather.DailyLimit > 0 || cfg.Weather.MonthlyLimit > 0 {
			q := acquire.NewQuota("openweather", cfg.Weather.DailyLimit, cfg.Weather.MonthlyLimit)
			if quotas != nil {
				q = q.WithStore(ctx, quotas)
			}
			weather = acquire.NewLimitedWeather(weather, q)
		}
	}
	if cfg.Elevation.Enabled {
		elevation = openelevation.New(openelevation.Config{BaseURL: cfg.Elevation.BaseURL, Timeout: timeout})
	}
	if cfg.Geocoding.Enabled {
		geocoder = nominatim.New(nominatim.Config{
			BaseURL:   cfg.Geocoding.BaseURL,
			UserAgent: cfg.Geocoding.UserAgent,
			Language:  cfg.Geocoding.Language,
			Timeout:   timeout,
		})
	}
	if cfg.Location.Enabled {
		locator = ipapi.New(ipapi.Config{BaseURL: cfg.Location.BaseURL, Timeout: timeout})
	}

	fallback := geo.Point{Lat: cfg.Fallback.Latitude, Lon: cfg.Fallback.Longitude}
	return acquire.New(weather, elevation, geocoder, locator, fallback)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorResponseCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
