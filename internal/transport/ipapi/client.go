// Package ipapi approximates a caller's position from an IP address via ip-api.com.
package ipapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kailas-cloud/soilsense/internal/domain/geo"
	"github.com/kailas-cloud/soilsense/internal/transport/httpjson"
)

// DefaultBaseURL is the free ip-api endpoint.
const DefaultBaseURL = "http://ip-api.com"

// Config holds the ip-api settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

type locateResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Client implements acquire.Locator.
type Client struct {
	http    *httpjson.Client
	baseURL string
}

// New creates an ip-api client.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{http: httpjson.New(cfg.Timeout, nil), baseURL: base}
}

// Locate resolves ip to a point and a "City, Country" label.
// An empty ip asks the API to use the address the request comes from.
func (c *Client) Locate(ctx context.Context, ip string) (geo.Point, string, error) {
	q := url.Values{}
	q.Set("fields", "status,message,city,country,lat,lon")
	q.Set("lang", "es")

	var resp locateResponse
	u := c.baseURL + "/json/" + url.PathEscape(ip) + "?" + q.Encode()
	if err := c.http.Get(ctx, u, &resp); err != nil {
		return geo.Point{}, "", fmt.Errorf("ip-api: %w", err)
	}
	if resp.Status != "success" {
		return geo.Point{}, "", fmt.Errorf("ip-api: %s", resp.Message)
	}

	p, err := geo.NewPoint(resp.Lat, resp.Lon)
	if err != nil {
		return geo.Point{}, "", fmt.Errorf("ip-api: %w", err)
	}

	parts := make([]string, 0, 2)
	for _, s := range []string{resp.City, resp.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return p, strings.Join(parts, ", "), nil
}
