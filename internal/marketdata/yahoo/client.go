// Package yahoo reads prices, company info and statements from the public
// Yahoo Finance endpoints.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/guttosm/equifolio/internal/logger"
	"github.com/guttosm/equifolio/internal/marketdata"
)

const (
	// DefaultBaseURL serves the chart and quoteSummary APIs.
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	// DefaultCookieURL hands out the session cookie the crumb is bound to.
	DefaultCookieURL = "https://fc.yahoo.com"

	userAgent = "Mozilla/5.0 (compatible; equifolio/1.0)"
)

// errUnauthorized signals an expired crumb.
var errUnauthorized = errors.New("yahoo: unauthorized")

// Client implements marketdata.Provider and marketdata.StatementProvider.
type Client struct {
	baseURL   string
	cookieURL string
	http      *http.Client

	mu    sync.Mutex
	crumb string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithCookieURL overrides the cookie priming endpoint.
func WithCookieURL(u string) Option {
	return func(c *Client) { c.cookieURL = u }
}

// WithHTTPClient replaces the HTTP client. A cookie jar is attached when
// the client has none.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a Client with a 30 second timeout and its own cookie jar.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		cookieURL: DefaultCookieURL,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, _ := cookiejar.New(nil)
		c.http.Jar = jar
	}
	return c
}

var (
	_ marketdata.Provider          = (*Client)(nil)
	_ marketdata.StatementProvider = (*Client)(nil)
)

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, errUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		// chart and quoteSummary return a JSON error body with 404
		return body, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

// ensureCrumb primes the session cookie and fetches a crumb once per client.
func (c *Client) ensureCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crumb != "" {
		return c.crumb, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cookieURL, nil)
	if err != nil {
		return "", fmt.Errorf("yahoo: build cookie request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if resp, err := c.http.Do(req); err == nil {
		// the status is irrelevant, only the Set-Cookie header matters
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	} else {
		logger.L().Debug().Err(err).Msg("yahoo cookie priming failed")
	}

	body, err := c.get(ctx, c.baseURL+"/v1/test/getcrumb")
	if err != nil {
		return "", fmt.Errorf("yahoo crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.HasPrefix(crumb, "{") {
		return "", fmt.Errorf("yahoo crumb: unexpected response %q", truncate(body, 80))
	}
	c.crumb = crumb
	return crumb, nil
}

func (c *Client) resetCrumb() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}

// getWithCrumb calls build with a crumb, refreshing it once on 401.
func (c *Client) getWithCrumb(ctx context.Context, build func(crumb string) string) ([]byte, error) {
	for attempt := 0; attempt < 2; attempt++ {
		crumb, err := c.ensureCrumb(ctx)
		if err != nil {
			return nil, err
		}
		body, err := c.get(ctx, build(crumb))
		if errors.Is(err, errUnauthorized) {
			c.resetCrumb()
			continue
		}
		return body, err
	}
	return nil, errUnauthorized
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

func escape(ticker string) string {
	return url.PathEscape(marketdata.NormalizeTicker(ticker))
}
