package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/soilsense/internal/domain/crop"
)

// Config holds the soilsense API configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Logging     LoggingConfig     `yaml:"logging"`
	Models      ModelsConfig      `yaml:"models"`
	Prediction  PredictionConfig  `yaml:"prediction"`
	Features    FeaturesConfig    `yaml:"features"`
	Acquisition AcquisitionConfig `yaml:"acquisition"`
	Session     SessionConfig     `yaml:"session"`
	Recorder    RecorderConfig    `yaml:"recorder"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the session store connection settings.
// Empty addrs disables session memory.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	Standalone       bool     `yaml:"standalone"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// ModelConfig holds one model handle's settings.
type ModelConfig struct {
	Backend    string `yaml:"backend"` // xgboost (default), http
	Path       string `yaml:"path"`
	URL        string `yaml:"url"`
	HealthURL  string `yaml:"health_url"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// ModelsConfig holds both model handles.
type ModelsConfig struct {
	Fertility ModelConfig `yaml:"fertility"`
	Crop      ModelConfig `yaml:"crop"`
}

// PredictionConfig holds the fertility threshold policy and the crop catalog.
type PredictionConfig struct {
	Threshold     float64  `yaml:"threshold"`
	ThresholdMode string   `yaml:"threshold_mode"` // probability (default), class
	Crops         []string `yaml:"crops"`
}

// FeaturesConfig overrides per-field defaults by canonical name.
type FeaturesConfig struct {
	Defaults map[string]float64 `yaml:"defaults"`
}

// AcquisitionConfig holds the environmental lookup providers.
type AcquisitionConfig struct {
	TimeoutSec int              `yaml:"timeout_sec"`
	Weather    WeatherConfig    `yaml:"weather"`
	Elevation  EndpointConfig   `yaml:"elevation"`
	Geocoding  GeocodingConfig  `yaml:"geocoding"`
	Location   EndpointConfig   `yaml:"location"`
	Fallback   CoordinateConfig `yaml:"fallback"`
}

// EndpointConfig is a toggleable provider with an optional base URL override.
type EndpointConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
}

// WeatherConfig holds the OpenWeather settings.
type WeatherConfig struct {
	EndpointConfig `yaml:",inline"`
	APIKey         string `yaml:"api_key"`
	// Call allowances; 0 means unlimited.
	DailyLimit   int64 `yaml:"daily_limit"`
	MonthlyLimit int64 `yaml:"monthly_limit"`
}

// GeocodingConfig holds the reverse geocoder settings.
type GeocodingConfig struct {
	EndpointConfig `yaml:",inline"`
	UserAgent      string `yaml:"user_agent"`
	Language       string `yaml:"language"`
}

// CoordinateConfig is a lat/lon pair.
type CoordinateConfig struct {
	Latitude  float64 `yaml:"lat"`
	Longitude float64 `yaml:"lon"`
}

// SessionConfig holds last-known reading settings.
type SessionConfig struct {
	TTLHours int `yaml:"ttl_hours"`
}

// RecorderConfig holds the optional Postgres prediction log.
type RecorderConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded first.
func Load(env string) (Config, error) {
	_ = godotenv.Load()
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	for _, m := range []*ModelConfig{&c.Models.Fertility, &c.Models.Crop} {
		if m.Backend == "" {
			m.Backend = "xgboost"
		}
		if m.TimeoutSec <= 0 {
			m.TimeoutSec = 5
		}
	}
	if c.Prediction.Threshold == 0 {
		c.Prediction.Threshold = 0.5
	}
	if c.Prediction.ThresholdMode == "" {
		c.Prediction.ThresholdMode = "probability"
	}
	if len(c.Prediction.Crops) == 0 {
		c.Prediction.Crops = append([]string(nil), crop.DefaultLabels...)
	}
	if c.Acquisition.TimeoutSec <= 0 {
		c.Acquisition.TimeoutSec = 5
	}
	if c.Acquisition.Fallback == (CoordinateConfig{}) {
		// Ciudad de México
		c.Acquisition.Fallback = CoordinateConfig{Latitude: 19.432608, Longitude: -99.133209}
	}
	if c.Session.TTLHours <= 0 {
		c.Session.TTLHours = 24
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if err := c.Models.Fertility.validate("models.fertility"); err != nil {
		return err
	}
	if err := c.Models.Crop.validate("models.crop"); err != nil {
		return err
	}
	if !(c.Prediction.Threshold > 0 && c.Prediction.Threshold <= 1) {
		return fmt.Errorf("prediction.threshold must be in (0, 1], got %v", c.Prediction.Threshold)
	}
	switch c.Prediction.ThresholdMode {
	case "probability", "class":
		// ok
	default:
		return fmt.Errorf(
			"prediction.threshold_mode must be \"probability\" or \"class\", got %q",
			c.Prediction.ThresholdMode,
		)
	}
	if len(c.Prediction.Crops) == 0 {
		return fmt.Errorf("prediction.crops must not be empty")
	}
	fb := c.Acquisition.Fallback
	if fb.Latitude < -90 || fb.Latitude > 90 || fb.Longitude < -180 || fb.Longitude > 180 {
		return fmt.Errorf("acquisition.fallback is not a valid coordinate: %v,%v", fb.Latitude, fb.Longitude)
	}
	if c.Acquisition.Weather.DailyLimit < 0 || c.Acquisition.Weather.MonthlyLimit < 0 {
		return fmt.Errorf("acquisition.weather limits must not be negative")
	}
	if c.Recorder.Enabled && c.Recorder.DSN == "" {
		return fmt.Errorf("recorder.dsn is required when recorder is enabled")
	}
	return nil
}

func (m ModelConfig) validate(section string) error {
	switch m.Backend {
	case "xgboost":
		if m.Path == "" {
			return fmt.Errorf("%s.path is required for the xgboost backend", section)
		}
	case "http":
		if m.URL == "" {
			return fmt.Errorf("%s.url is required for the http backend", section)
		}
	default:
		return fmt.Errorf("%s.backend must be \"xgboost\" or \"http\", got %q", section, m.Backend)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
