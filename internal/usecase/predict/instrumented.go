package predict

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/metrics"
)

// InstrumentedModel wraps a Model with metrics and logging.
type InstrumentedModel struct {
	inner  domain.Model
	role   string
	logger *zap.Logger
}

// NewInstrumentedModel wraps a model for the given role (fertility or crop).
func NewInstrumentedModel(inner domain.Model, role string, logger *zap.Logger) *InstrumentedModel {
	return &InstrumentedModel{inner: inner, role: role, logger: logger}
}

// Predict delegates to the inner model and records duration and outcome.
func (m *InstrumentedModel) Predict(ctx context.Context, values []float64) (domain.Output, error) {
	start := time.Now()

	out, err := m.inner.Predict(ctx, values)

	duration := time.Since(start)
	metrics.ModelRequestDuration.WithLabelValues(m.role).Observe(duration.Seconds())

	if err != nil {
		metrics.ModelRequestsTotal.WithLabelValues(m.role, "error").Inc()
		m.logger.Error("Model invocation failed",
			zap.String("model", m.role),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.Output{}, fmt.Errorf("%s predict: %w", m.role, err)
	}

	metrics.ModelRequestsTotal.WithLabelValues(m.role, "success").Inc()
	m.logger.Debug("Model invocation completed",
		zap.String("model", m.role),
		zap.Duration("duration", duration),
		zap.Int("outputs", len(out.Values)),
	)
	return out, nil
}

// HealthCheck delegates to the inner model if it supports health checks.
func (m *InstrumentedModel) HealthCheck(ctx context.Context) error {
	if hc, ok := m.inner.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s model health: %w", m.role, err)
		}
	}
	return nil
}
