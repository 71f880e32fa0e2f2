// Package model builds the fertility and crop model handles from configuration.
package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/domain/feature"
	"github.com/kailas-cloud/soilsense/internal/domain/prediction"
	"github.com/kailas-cloud/soilsense/internal/model/xgboost"
	"github.com/kailas-cloud/soilsense/internal/transport/modelserver"
)

// Backend selects how a model is evaluated.
type Backend string

const (
	// BackendXGBoost evaluates an XGBoost JSON model in process.
	BackendXGBoost Backend = "xgboost"
	// BackendHTTP calls a remote model server.
	BackendHTTP Backend = "http"
)

// IsValid checks if the backend is supported.
func (b Backend) IsValid() bool {
	return b == BackendXGBoost || b == BackendHTTP
}

// Spec describes one model handle.
type Spec struct {
	Backend   Backend
	Path      string
	URL       string
	HealthURL string
	APIKey    string
	Timeout   time.Duration
}

// Set holds both model handles. A nil handle means the model is unavailable.
type Set struct {
	Fertility domain.Model
	Crop      domain.Model
}

// Load builds both handles. On any failure it returns an empty Set and the error;
// callers keep serving and report models as unavailable.
func Load(fertility, crop Spec) (Set, error) {
	f, err := build(fertility)
	if err != nil {
		return Set{}, fmt.Errorf("%s model: %w", domain.ModelFertility, err)
	}
	c, err := build(crop)
	if err != nil {
		return Set{}, fmt.Errorf("%s model: %w", domain.ModelCrop, err)
	}
	return Set{Fertility: f, Crop: c}, nil
}

func build(s Spec) (domain.Model, error) {
	switch s.Backend {
	case BackendXGBoost:
		if s.Path == "" {
			return nil, errors.New("path is required")
		}
		m, err := xgboost.LoadFile(s.Path, feature.Canonical.Len())
		if err != nil {
			return nil, err
		}
		return m, nil
	case BackendHTTP:
		if s.URL == "" {
			return nil, errors.New("url is required")
		}
		return modelserver.New(modelserver.Config{
			URL:       s.URL,
			HealthURL: s.HealthURL,
			APIKey:    s.APIKey,
			Timeout:   s.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", s.Backend)
	}
}

// CheckMode rejects class threshold mode for a fertility model known to emit probabilities:
// every score below 1 would read as infertile.
func (s Set) CheckMode(mode prediction.ThresholdMode) error {
	if mode != prediction.ModeClass {
		return nil
	}
	if m, ok := s.Fertility.(*xgboost.Model); ok && m.Probabilistic() {
		return fmt.Errorf("threshold mode %q needs a class-valued fertility model, objective %s yields probabilities",
			mode, m.Objective())
	}
	return nil
}

// Ready reports whether both models are loaded.
func (s Set) Ready() bool {
	return s.Fertility != nil && s.Crop != nil
}

// HealthCheck fails with domain.ErrModelUnavailable when a model is missing,
// otherwise delegates to handles that support health checks.
func (s Set) HealthCheck(ctx context.Context) error {
	if !s.Ready() {
		return domain.ErrModelUnavailable
	}
	for _, m := range []domain.Model{s.Fertility, s.Crop} {
		if hc, ok := m.(domain.HealthChecker); ok {
			if err := hc.HealthCheck(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}
