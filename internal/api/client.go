// Package api is a thin typed client over the ticketing backend REST API.
// It owns no state beyond the base URL and an optional bearer credential:
// every business rule (pricing, promotion validity, seat availability,
// showtime conflicts) is decided by the backend, and this package only
// moves request/response shapes across the wire.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client issues HTTP requests against the ticketing backend.
type Client struct {
	baseURL string
	http    *http.Client
	token   string // bearer credential; empty for anonymous calls
}

// NewClient creates a client for the backend at baseURL.  The timeout
// applies per request; there is no retry logic, callers surface failures
// to the user instead.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of the client that sends the given bearer token
// on every request.  The zero-cost copy keeps one shared transport while
// letting each signed-in session carry its own credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// do performs one request and decodes a JSON response into out (when out is
// non-nil).  Non-2xx responses become an *APIError carrying the backend's
// verbatim message.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body *bytes.Buffer
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

func (c *Client) del(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
