package soilsense

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/domain/crop"
	"github.com/kailas-cloud/soilsense/internal/domain/environment"
	"github.com/kailas-cloud/soilsense/internal/domain/feature"
	"github.com/kailas-cloud/soilsense/internal/domain/prediction"
	"github.com/kailas-cloud/soilsense/internal/model"
	"github.com/kailas-cloud/soilsense/internal/usecase/assemble"
	"github.com/kailas-cloud/soilsense/internal/usecase/predict"
)

// Client runs predictions in process. Safe for concurrent use.
type Client struct {
	schema    feature.Schema
	assembler *assemble.Assembler
	predictor *predict.Service
	obs       *observer
}

// New creates a Client. Without any model option the client is created
// but Predict fails with ErrModelUnavailable.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		threshold: prediction.DefaultThreshold,
		mode:      string(prediction.ModeProbability),
		crops:     crop.DefaultLabels,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	policy, err := prediction.NewPolicy(prediction.ThresholdMode(cfg.mode), cfg.threshold)
	if err != nil {
		return nil, fmt.Errorf("soilsense: %w", err)
	}
	catalog, err := crop.New(cfg.crops)
	if err != nil {
		return nil, fmt.Errorf("soilsense: %w", err)
	}

	fertility, cropModel, err := resolveModels(cfg)
	if err != nil {
		return nil, fmt.Errorf("soilsense: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	schema := feature.Canonical.WithDefaults(cfg.defaults)
	return &Client{
		schema:    schema,
		assembler: assemble.New(schema),
		predictor: predict.New(fertility, cropModel, policy, catalog),
		obs:       obs,
	}, nil
}

func resolveModels(cfg *clientConfig) (domain.Model, domain.Model, error) {
	switch {
	case cfg.fertility != nil || cfg.crop != nil:
		var f, c domain.Model
		if cfg.fertility != nil {
			f = &modelAdapter{inner: cfg.fertility}
		}
		if cfg.crop != nil {
			c = &modelAdapter{inner: cfg.crop}
		}
		return f, c, nil
	case cfg.fertilityPath != "" || cfg.cropPath != "":
		set, err := model.Load(
			model.Spec{Backend: model.BackendXGBoost, Path: cfg.fertilityPath},
			model.Spec{Backend: model.BackendXGBoost, Path: cfg.cropPath},
		)
		if err != nil {
			return nil, nil, err
		}
		if err := set.CheckMode(prediction.ThresholdMode(cfg.mode)); err != nil {
			return nil, nil, err
		}
		return set.Fertility, set.Crop, nil
	case cfg.fertilityURL != "" || cfg.cropURL != "":
		set, err := model.Load(
			model.Spec{Backend: model.BackendHTTP, URL: cfg.fertilityURL, Timeout: cfg.timeout},
			model.Spec{Backend: model.BackendHTTP, URL: cfg.cropURL, Timeout: cfg.timeout},
		)
		if err != nil {
			return nil, nil, err
		}
		return set.Fertility, set.Crop, nil
	default:
		return nil, nil, nil
	}
}

// Ready reports whether both models are available.
func (c *Client) Ready() bool { return c.predictor.Ready() }

// Assemble returns the feature vector for soil and reading, in Schema() order.
func (c *Client) Assemble(soil Soil, reading Reading) (values []float64, err error) {
	start := time.Now()
	defer func() { c.obs.observe("assemble", start, err) }()

	v, err := c.assembler.Assemble(toDomainSoil(soil), toDomainReading(reading), environment.Reading{})
	if err != nil {
		return nil, err
	}
	return v.Values(), nil
}

// Predict assembles the vector and runs the fertility model, then the crop
// model for fertile soil only.
func (c *Client) Predict(ctx context.Context, soil Soil, reading Reading) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("predict", start, err) }()

	v, err := c.assembler.Assemble(toDomainSoil(soil), toDomainReading(reading), environment.Reading{})
	if err != nil {
		return Result{}, err
	}
	r, err := c.predictor.Predict(ctx, v)
	if err != nil {
		return Result{}, err
	}

	res = fromDomainResult(r, v)
	c.obs.verdict(res)
	return res, nil
}

// Schema returns the model input columns in order, with effective defaults.
func (c *Client) Schema() []Field { return fromSchema(c.schema) }

// Crops returns the crop labels in class order.
func (c *Client) Crops() []string { return c.predictor.Catalog().Labels() }
