package chi

import (
	"github.com/kailas-cloud/soilsense/internal/domain/feature"
)

// ErrorResponseCode is the machine-readable error code in error bodies.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeMissingField     ErrorResponseCode = "missing_field"
	ErrorResponseCodeInvalidField     ErrorResponseCode = "invalid_field"
	ErrorResponseCodeInvalidSource    ErrorResponseCode = "invalid_source"
	ErrorResponseCodeInvalidLocation  ErrorResponseCode = "invalid_coordinates"
	ErrorResponseCodeNotFound         ErrorResponseCode = "not_found"
	ErrorResponseCodeModelUnavailable ErrorResponseCode = "models_unavailable"
	ErrorResponseCodeInferenceFailed  ErrorResponseCode = "inference_failed"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
	Field   string            `json:"field,omitempty"`
}

// EnvironmentRequest selects how humidity and elevation are obtained.
type EnvironmentRequest struct {
	Mode        string   `json:"mode"`
	Latitude    *float64 `json:"lat,omitempty"`
	Longitude   *float64 `json:"lon,omitempty"`
	IP          string   `json:"ip,omitempty"`
	HumidityPct *float64 `json:"humidity_pct,omitempty"`
	ElevationM  *float64 `json:"elevation_m,omitempty"`
}

// PredictionRequest is the body of POST /api/v1/predictions.
type PredictionRequest struct {
	SessionID   string             `json:"session_id,omitempty"`
	Soil        feature.Soil       `json:"soil"`
	Environment EnvironmentRequest `json:"environment"`
}

// EnvironmentResponse is a resolved reading. Unavailable values are null.
type EnvironmentResponse struct {
	Source      string   `json:"source"`
	HumidityPct *float64 `json:"humidity_pct"`
	ElevationM  *float64 `json:"elevation_m"`
	Latitude    *float64 `json:"lat,omitempty"`
	Longitude   *float64 `json:"lon,omitempty"`
	Place       string   `json:"place,omitempty"`
}

// PredictionResponse is the body of a successful prediction.
type PredictionResponse struct {
	Fertility      string              `json:"fertility"`
	Fertile        bool                `json:"fertile"`
	Crop           string              `json:"crop"`
	FertilityScore float64             `json:"fertility_score"`
	CropIndex      *int                `json:"crop_index,omitempty"`
	Features       map[string]float64  `json:"features"`
	Environment    EnvironmentResponse `json:"environment"`
}

// SchemaResponse lists the model input columns in canonical order.
type SchemaResponse struct {
	Fields []feature.Spec `json:"fields"`
}

// CropItem is one crop class.
type CropItem struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// CropsResponse is the crop catalog.
type CropsResponse struct {
	Items   []CropItem `json:"items"`
	None    string     `json:"none"`
	Unknown string     `json:"unknown"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
