// Package openelevation looks up terrain elevation via an Open-Elevation compatible API.
package openelevation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kailas-cloud/soilsense/internal/domain/geo"
	"github.com/kailas-cloud/soilsense/internal/transport/httpjson"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.open-elevation.com"

// Config holds the elevation API settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

type lookupResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Elevation float64 `json:"elevation"`
	} `json:"results"`
}

// Client implements acquire.ElevationLookup.
type Client struct {
	http    *httpjson.Client
	baseURL string
}

// New creates an elevation client.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{http: httpjson.New(cfg.Timeout, nil), baseURL: base}
}

// Elevation returns meters above sea level at p.
func (c *Client) Elevation(ctx context.Context, p geo.Point) (float64, error) {
	q := url.Values{}
	q.Set("locations", p.String())

	var resp lookupResponse
	if err := c.http.Get(ctx, c.baseURL+"/api/v1/lookup?"+q.Encode(), &resp); err != nil {
		return 0, fmt.Errorf("open-elevation: %w", err)
	}
	if len(resp.Results) == 0 {
		return 0, errors.New("open-elevation: empty results")
	}
	return resp.Results[0].Elevation, nil
}
