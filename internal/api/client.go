// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

// Package api is the client for the device backend's REST API.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// StatusError is returned for non-2xx responses. The body has already been
// drained; callers decide how to surface it.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d for %s", e.Code, e.URL)
}

// Client talks to one backend instance with one bearer token.
type Client struct {
	base  string
	token string
	http  *retryablehttp.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithRetryMax caps transport-level retries. Default is 2.
func WithRetryMax(n int) Option {
	return func(c *Client) { c.http.RetryMax = n }
}

// WithTimeout bounds each HTTP attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.HTTPClient.Timeout = d }
}

// New constructs a Client for the given base URL. The token may be empty for
// unauthenticated deployments.
func New(base, token string, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.HTTPClient.Timeout = 15 * time.Second
	rc.RetryMax = 2
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil

	c := &Client{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  rc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL reports the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.base
}

// GetJSON performs a GET against path (joined to the base URL) and returns
// the raw response body. Non-2xx responses become a *StatusError; the cache
// layer above never stores those.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.base + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.GetRaw(ctx, u)
}

// GetRaw performs a GET against an absolute URL. Used by GetJSON and by the
// snapshot fetcher for http(s) image URLs.
func (c *Client) GetRaw(ctx context.Context, u string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, URL: u}
	}

	log.Debugf("GET %s -> %d (%d bytes)", u, resp.StatusCode, len(body))
	return body, nil
}
