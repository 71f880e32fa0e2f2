// Package modelserver is a domain.Model backed by a remote inference server.
package modelserver

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/domain/feature"
	"github.com/kailas-cloud/soilsense/internal/transport/httpjson"
)

var _ domain.Model = (*Client)(nil)

// Config holds the model server settings.
type Config struct {
	URL       string
	HealthURL string
	APIKey    string
	Timeout   time.Duration
}

type predictRequest struct {
	FeatureNames []string  `json:"feature_names"`
	Features     []float64 `json:"features"`
}

type predictResponse struct {
	Output []float64 `json:"output"`
}

// Client posts feature vectors to a model server.
type Client struct {
	http      *httpjson.Client
	url       string
	healthURL string
	names     []string
}

// New creates a model server client. Feature names are sent in canonical order.
func New(cfg Config) *Client {
	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}
	return &Client{
		http:      httpjson.New(cfg.Timeout, headers),
		url:       cfg.URL,
		healthURL: cfg.HealthURL,
		names:     feature.Canonical.Names(),
	}
}

// Predict implements domain.Model.
func (c *Client) Predict(ctx context.Context, values []float64) (domain.Output, error) {
	if len(values) != len(c.names) {
		return domain.Output{}, fmt.Errorf("expected %d features, got %d", len(c.names), len(values))
	}

	var resp predictResponse
	req := predictRequest{FeatureNames: c.names, Features: values}
	if err := c.http.Post(ctx, c.url, req, &resp); err != nil {
		return domain.Output{}, fmt.Errorf("model server: %w", err)
	}
	return domain.Output{Values: resp.Output}, nil
}

// HealthCheck probes the health URL. Without one the server is assumed reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.healthURL == "" {
		return nil
	}
	if err := c.http.Get(ctx, c.healthURL, nil); err != nil {
		return fmt.Errorf("model server health: %w", err)
	}
	return nil
}
