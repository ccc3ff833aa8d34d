// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

// Package upstream is the typed HTTP client for the remote Raay API. It
// normalizes transport, HTTP and decoding failures into the error taxonomy
// the cache layer and handlers branch on. Retry policy, if any, lives with
// the callers.
package upstream

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"resty.dev/v3"
)

// Client performs authenticated and unauthenticated calls against the
// upstream REST API.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// New creates a Client for the given base URL.
func New(baseURL string, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		logger: logger,
	}
}

// Close releases the underlying transport resources.
func (c *Client) Close() error {
	return c.http.Close()
}

// get performs a GET request and decodes the JSON response into out.
// token may be empty for public endpoints.
func (c *Client) get(ctx context.Context, path, token string, query map[string]string, out any) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
	if token != "" {
		req.SetAuthToken(token)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	return c.decode(resp, err, path, out)
}

// send performs a mutating request (POST/DELETE) with an optional JSON body.
func (c *Client) send(ctx context.Context, method, path, token string, body, out any) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
	if token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetContentType("application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	return c.decode(resp, err, path, out)
}

// decode maps a resty response onto the typed error taxonomy and, when out
// is non-nil, unmarshals the body into it.
func (c *Client) decode(resp *resty.Response, err error, path string, out any) error {
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("upstream request failed", "path", path, "error", err)
		}
		return &NetworkError{Err: err}
	}

	if resp.IsError() {
		if c.logger != nil {
			c.logger.Warn("upstream returned error status", "path", path, "status", resp.StatusCode())
		}
		return &HTTPError{Status: resp.StatusCode(), Body: resp.Bytes()}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(resp.Bytes(), out); err != nil {
		if c.logger != nil {
			c.logger.Warn("upstream response is not valid JSON", "path", path, "error", err)
		}
		return &DecodeError{Err: err}
	}

	return nil
}
