// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/grantscope/pkg/types"
)

// ErrUnreachable marks failures where the source could not be fetched:
// transport errors, cancelled contexts, and non-200 responses.
var ErrUnreachable = errors.New("source unreachable")

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "grantscope/0.1"
)

// Client is a scoped HTTP client with a fixed per-request timeout, bounded
// retries, and an optional request rate limit. It is safe for concurrent use.
type Client struct {
	http       *http.Client
	userAgent  string
	maxRetries int
	limiter    *rate.Limiter
}

// NewClient builds a Client from cfg, applying defaults for zero values.
func NewClient(cfg types.HTTPConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	c := &Client{
		http:       &http.Client{Timeout: timeout},
		userAgent:  ua,
		maxRetries: cfg.MaxRetries,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// Get fetches url and returns the response body. Any failure is wrapped with
// ErrUnreachable; context errors remain matchable with errors.Is.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: waiting for rate limit: %w", ErrUnreachable, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := DoWithRetry(ctx, c.http, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: HTTP %d from %s", ErrUnreachable, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrUnreachable, err)
	}
	return body, nil
}
