// Package nominatim resolves display names for coordinates via OSM Nominatim.
package nominatim

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

// DefaultBaseURL is the public Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// DefaultUserAgent identifies the service, as the Nominatim usage policy requires.
const DefaultUserAgent = "soilsense/1.0"

// Config holds the Nominatim settings.
type Config struct {
	BaseURL   string
	UserAgent string
	Language  string
	Timeout   time.Duration
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
	Error string `json:"error"`
}

// Client implements acquire.Geocoder.
type Client struct {
	http     *httpjson.Client
	baseURL  string
	language string
}

// New creates a Nominatim client.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	lang := cfg.Language
	if lang == "" {
		lang = "es"
	}
	return &Client{
		http:     httpjson.New(cfg.Timeout, map[string]string{"User-Agent": ua}),
		baseURL:  base,
		language: lang,
	}
}

// Reverse returns a short place name for p, e.g. "Ciudad de México, México".
func (c *Client) Reverse(ctx context.Context, p geo.Point) (string, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(p.Lon, 'f', -1, 64))
	q.Set("zoom", "10")
	q.Set("accept-language", c.language)

	var resp reverseResponse
	if err := c.http.Get(ctx, c.baseURL+"/reverse?"+q.Encode(), &resp); err != nil {
		return "", fmt.Errorf("nominatim: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("nominatim: %s", resp.Error)
	}
	if name := resp.shortName(); name != "" {
		return name, nil
	}
	return "", errors.New("nominatim: no place name")
}

func (r reverseResponse) shortName() string {
	a := r.Address
	locality := a.City
	if locality == "" {
		locality = a.Town
	}
	if locality == "" {
		locality = a.Village
	}
	if locality == "" {
		locality = a.State
	}
	switch {
	case locality != "" && a.Country != "":
		return locality + ", " + a.Country
	case locality != "":
		return locality
	default:
		return r.DisplayName
	}
}
