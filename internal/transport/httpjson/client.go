// Package httpjson is the small JSON-over-HTTP helper shared by the outbound adapters.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxErrorBody caps how much of an error response is kept for diagnostics.
const maxErrorBody = 512

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Client wraps http.Client with default headers.
type Client struct {
	http    *http.Client
	headers http.Header
}

// New creates a client. A zero timeout means 10s.
func New(timeout time.Duration, headers map[string]string) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	h := make(http.Header, len(headers))
	for k, v := range headers {
		if v != "" {
			h.Set(k, v)
		}
	}
	return &Client{http: &http.Client{Timeout: timeout}, headers: h}
}

// Get sends a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

// Post sends in as JSON and decodes the JSON response into out.
func (c *Client) Post(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	for k, v := range c.headers {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Detail: extractDetail(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// extractDetail pulls a human-readable message from common JSON error shapes.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		switch {
		case parsed.Detail != "":
			return parsed.Detail
		case parsed.Message != "":
			return parsed.Message
		case parsed.Error != "":
			return parsed.Error
		}
	}
	return string(bytes.TrimSpace(body))
}
