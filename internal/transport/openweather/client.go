// Package openweather looks up current relative humidity via the OpenWeather API.
package openweather

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/kailas-cloud/soilsense/internal/domain/geo"
	"github.com/kailas-cloud/soilsense/internal/transport/httpjson"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.openweathermap.org"

// Config holds the OpenWeather settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type weatherResponse struct {
	Main struct {
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Name string `json:"name"`
}

// Client implements acquire.WeatherLookup.
type Client struct {
	http    *httpjson.Client
	baseURL string
	apiKey  string
}

// New creates an OpenWeather client.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{http: httpjson.New(cfg.Timeout, nil), baseURL: base, apiKey: cfg.APIKey}
}

// Humidity returns the current relative humidity (%) at p.
func (c *Client) Humidity(ctx context.Context, p geo.Point) (float64, error) {
	if c.apiKey == "" {
		return 0, errors.New("openweather api key not configured")
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(p.Lon, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	q.Set("lang", "es")

	var resp weatherResponse
	if err := c.http.Get(ctx, c.baseURL+"/data/2.5/weather?"+q.Encode(), &resp); err != nil {
		return 0, fmt.Errorf("openweather: %w", err)
	}
	if resp.Main.Humidity == nil {
		return 0, errors.New("openweather: humidity missing from response")
	}
	return *resp.Main.Humidity, nil
}
