package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/equifolio/internal/domain/models"
)

// DefaultNewsAPIURL is the NewsAPI.org base URL.
const DefaultNewsAPIURL = "https://newsapi.org"

// NewsAPI searches NewsAPI.org's /v2/everything endpoint.
type NewsAPI struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewsAPIOption configures a NewsAPI client.
type NewsAPIOption func(*NewsAPI)

// WithNewsAPIURL overrides the base URL.
func WithNewsAPIURL(u string) NewsAPIOption {
	return func(n *NewsAPI) { n.baseURL = strings.TrimRight(u, "/") }
}

// WithNewsAPIHTTPClient replaces the HTTP client.
func WithNewsAPIHTTPClient(h *http.Client) NewsAPIOption {
	return func(n *NewsAPI) { n.http = h }
}

// NewNewsAPI returns a client authenticated with apiKey.
func NewNewsAPI(apiKey string, opts ...NewsAPIOption) *NewsAPI {
	n := &NewsAPI{
		baseURL: DefaultNewsAPIURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var _ Provider = (*NewsAPI)(nil)

// APIError is a NewsAPI error body ({"status":"error","code":...}).
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("newsapi error: %s: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

type everythingResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// FetchArticles searches for "TICKER OR Company" in English articles,
// sorted by relevancy.
func (n *NewsAPI) FetchArticles(ctx context.Context, q Query) ([]models.Article, error) {
	if n.apiKey == "" {
		return nil, fmt.Errorf("newsapi: missing api key")
	}
	term := q.Ticker
	if q.Company != "" && !strings.EqualFold(q.Company, q.Ticker) {
		term = fmt.Sprintf("%s OR %s", q.Ticker, q.Company)
	}
	size := q.Limit
	if size <= 0 {
		size = DefaultPageSize
	}

	params := url.Values{}
	params.Set("q", term)
	if !q.From.IsZero() {
		params.Set("from", q.From.Format("2006-01-02"))
	}
	if !q.To.IsZero() {
		params.Set("to", q.To.Format("2006-01-02"))
	}
	params.Set("language", "en")
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", strconv.Itoa(size))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/v2/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi: build request: %w", err)
	}
	req.Header.Set("X-Api-Key", n.apiKey)

	resp, err := n.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("newsapi read body: %w", err)
	}
	var out everythingResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("newsapi decode (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || out.Status == "error" {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: out.Code, Message: out.Message}
	}

	articles := make([]models.Article, 0, len(out.Articles))
	for _, a := range out.Articles {
		if a.Title == "[Removed]" {
			continue
		}
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		articles = append(articles, models.Article{
			Source:      a.Source.Name,
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			PublishedAt: published,
		})
	}
	return articles, nil
}
