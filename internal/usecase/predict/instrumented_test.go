package predict

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/metrics"
)

type checkingModel struct {
	mockModel
	healthErr error
}

func (m *checkingModel) HealthCheck(_ context.Context) error { return m.healthErr }

func TestInstrumentedModel_Success(t *testing.T) {
	before := testutil.ToFloat64(metrics.ModelRequestsTotal.WithLabelValues("fertility", "success"))

	m := NewInstrumentedModel(&mockModel{out: []float64{0.7}}, domain.ModelFertility, zap.NewNop())
	out, err := m.Predict(context.Background(), make([]float64, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Values) != 1 || out.Values[0] != 0.7 {
		t.Errorf("unexpected output: %v", out.Values)
	}

	after := testutil.ToFloat64(metrics.ModelRequestsTotal.WithLabelValues("fertility", "success"))
	if after-before != 1 {
		t.Errorf("success counter delta = %v, want 1", after-before)
	}
}

func TestInstrumentedModel_Error(t *testing.T) {
	before := testutil.ToFloat64(metrics.ModelRequestsTotal.WithLabelValues("crop", "error"))

	cause := errors.New("boom")
	m := NewInstrumentedModel(&mockModel{err: cause}, domain.ModelCrop, zap.NewNop())
	_, err := m.Predict(context.Background(), make([]float64, 10))
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}

	after := testutil.ToFloat64(metrics.ModelRequestsTotal.WithLabelValues("crop", "error"))
	if after-before != 1 {
		t.Errorf("error counter delta = %v, want 1", after-before)
	}
}

func TestInstrumentedModel_HealthCheck(t *testing.T) {
	plain := NewInstrumentedModel(&mockModel{}, domain.ModelCrop, zap.NewNop())
	if err := plain.HealthCheck(context.Background()); err != nil {
		t.Errorf("model without health check should pass: %v", err)
	}

	down := errors.New("down")
	checked := NewInstrumentedModel(&checkingModel{healthErr: down}, domain.ModelCrop, zap.NewNop())
	if err := checked.HealthCheck(context.Background()); !errors.Is(err, down) {
		t.Errorf("expected wrapped health error, got %v", err)
	}
}
