package soilsense

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	fertility Model
	crop      Model

	fertilityPath string
	cropPath      string

	fertilityURL string
	cropURL      string
	timeout      time.Duration

	threshold float64
	mode      string
	crops     []string
	defaults  map[string]float64

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithModels uses caller-provided fertility and crop models.
// Takes precedence over WithModelFiles and WithModelServer.
func WithModels(fertility, crop Model) Option {
	return optionFunc(func(c *clientConfig) {
		c.fertility = fertility
		c.crop = crop
	})
}

// WithModelFiles loads XGBoost JSON models from disk.
func WithModelFiles(fertilityPath, cropPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.fertilityPath = fertilityPath
		c.cropPath = cropPath
	})
}

// WithModelServer calls remote model servers over HTTP.
// A zero timeout uses the server client default.
func WithModelServer(fertilityURL, cropURL string, timeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.fertilityURL = fertilityURL
		c.cropURL = cropURL
		c.timeout = timeout
	})
}

// WithThreshold sets the inclusive fertility probability cut-off. Default: 0.5.
func WithThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.threshold = t
	})
}

// WithThresholdMode selects "probability" (default) or "class".
func WithThresholdMode(mode string) Option {
	return optionFunc(func(c *clientConfig) {
		c.mode = mode
	})
}

// WithCrops replaces the crop labels, in the crop model's class order.
func WithCrops(labels ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.crops = append([]string(nil), labels...)
	})
}

// WithDefaults overrides per-field fallback values, keyed by field name.
// Only humidity_pct and elevation_m are ever filled from defaults.
func WithDefaults(defaults map[string]float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaults = defaults
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
