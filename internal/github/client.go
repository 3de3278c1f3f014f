// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package github implements the search, metadata and README collaborators
// of the resolution engine on top of the GitHub REST API. Every call returns
// a typed outcome (types.FetchStatus) instead of an error so the cascade can
// branch on infrastructure failures explicitly.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/codefinder/internal/httputil"
	"github.com/pdiddy/codefinder/internal/metrics"
	"github.com/pdiddy/codefinder/pkg/types"
)

const (
	acceptJSON = "application/vnd.github+json"
	apiVersion = "2022-11-28"
)

// Client talks to the GitHub REST API. It is safe to share but the engine
// uses it from a single goroutine.
type Client struct {
	http    *http.Client
	cfg     types.GitHubConfig
	limiter *rate.Limiter
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for cfg. Zero-valued settings take the package
// defaults from types.
func New(cfg types.GitHubConfig, opts ...Option) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = types.DefaultAPIBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = types.DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = types.DefaultUserAgent
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = types.DefaultPerPage
	}

	c := &Client{
		http:   &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues a GET against path (relative to the API base) and classifies
// the response. On FetchOK the caller owns resp.Body.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) (*http.Response, types.FetchStatus, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, types.FetchFailed, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	reqURL := strings.TrimSuffix(c.cfg.APIBase, "/") + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, types.FetchFailed, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", acceptJSON)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 1, c.cfg.RateLimitBackoff)
	if err != nil {
		metrics.RecordRequest(endpoint, types.FetchFailed)
		return nil, types.FetchFailed, fmt.Errorf("GitHub API request: %w", err)
	}

	status := classify(resp)
	metrics.RecordRequest(endpoint, status)
	if status == types.FetchOK {
		return resp, status, nil
	}
	resp.Body.Close()

	switch status {
	case types.FetchRateLimited:
		c.logger.Warn("GitHub rate limit persisted after retry", zap.String("path", path))
		return nil, status, fmt.Errorf("GitHub API rate limited (HTTP %d)", resp.StatusCode)
	case types.FetchNotFound:
		return nil, status, nil
	default:
		return nil, status, fmt.Errorf("GitHub API returned HTTP %d", resp.StatusCode)
	}
}

func classify(resp *http.Response) types.FetchStatus {
	switch {
	case httputil.IsRateLimited(resp):
		return types.FetchRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return types.FetchNotFound
	case resp.StatusCode != http.StatusOK:
		return types.FetchFailed
	default:
		return types.FetchOK
	}
}

// validSlug reports whether s has the owner/name form.
func validSlug(s string) bool {
	owner, name, ok := strings.Cut(s, "/")
	return ok && owner != "" && name != "" && !strings.Contains(name, "/")
}
