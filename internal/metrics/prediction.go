package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prediction and acquisition Prometheus metrics.
var (
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "soilsense",
			Name:      "predictions_total",
			Help:      "Total number of completed predictions by fertility verdict",
		},
		[]string{"fertility"},
	)

	CropRecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "soilsense",
			Name:      "crop_recommendations_total",
			Help:      "Total number of crop recommendations by crop label",
		},
		[]string{"crop"},
	)

	ModelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "soilsense",
			Name:      "model_requests_total",
			Help:      "Total number of model invocations",
		},
		[]string{"model", "status"},
	)

	ModelRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "soilsense",
			Name:      "model_request_duration_seconds",
			Help:      "Model invocation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"model"},
	)

	AcquisitionLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "soilsense",
			Name:      "acquisition_lookups_total",
			Help:      "Environmental lookups by provider and outcome",
		},
		[]string{"provider", "status"},
	)
)

var registerOnce sync.Once

// Register registers all service metrics on the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequestDuration)
		prometheus.MustRegister(httpRequestsTotal)
		prometheus.MustRegister(httpRequestsInFlight)
		prometheus.MustRegister(PredictionsTotal)
		prometheus.MustRegister(CropRecommendationsTotal)
		prometheus.MustRegister(ModelRequestsTotal)
		prometheus.MustRegister(ModelRequestDuration)
		prometheus.MustRegister(AcquisitionLookupsTotal)
	})
}
