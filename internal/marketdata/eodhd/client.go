// Package eodhd is a client for the EODHD (End of Day Historical Data) API.
// It serves prices, fundamentals, statements and news behind the
// marketdata and news interfaces.
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/guttosm/equifolio/internal/logger"
	"github.com/guttosm/equifolio/internal/marketdata"
)

const (
	// DefaultBaseURL is the base URL for the EODHD API.
	DefaultBaseURL = "https://eodhd.com/api"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10

	// DefaultExchange is appended to tickers given without an exchange suffix.
	DefaultExchange = "US"
)

// Client is an EODHD API client.
type Client struct {
	baseURL    string
	apiKey     string
	exchange   string
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit sets a custom rate limit. Values below 1 are ignored.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond < 1 {
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithExchange sets the exchange suffix for bare tickers.
func WithExchange(exchange string) ClientOption {
	return func(c *Client) {
		if exchange != "" {
			c.exchange = strings.ToUpper(exchange)
		}
	}
}

// NewClient creates a new EODHD API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		apiKey:   apiKey,
		exchange: DefaultExchange,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var (
	_ marketdata.Provider          = (*Client)(nil)
	_ marketdata.StatementProvider = (*Client)(nil)
)

// Symbol converts a ticker to TICKER.EXCHANGE form.
func (c *Client) Symbol(ticker string) string {
	ticker = marketdata.NormalizeTicker(ticker)
	if strings.Contains(ticker, ".") {
		return ticker
	}
	return ticker + "." + c.exchange
}

// get performs a GET request to the API.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &RateLimitError{RetryAfter: time.Second}
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	logger.L().Debug().Str("url", c.baseURL+path).Msg("eodhd request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", marketdata.ErrNotFound, apiErr)
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return &RateLimitError{RetryAfter: retryAfter(resp.Header.Get("Retry-After"))}
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func retryAfter(h string) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(h) + "s"); err == nil && d > 0 {
		return d
	}
	return time.Minute
}

// APIError represents an error from the EODHD API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("EODHD rate limit exceeded, retry after %v", e.RetryAfter)
}
