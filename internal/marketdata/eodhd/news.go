package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/news"
)

// NewsItem represents a single news article.
type NewsItem struct {
	Date      string         `json:"date"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Link      string         `json:"link"`
	Symbols   []string       `json:"symbols"`
	Tags      []string       `json:"tags"`
	Sentiment *NewsSentiment `json:"sentiment,omitempty"`
}

// NewsSentiment represents sentiment analysis data for news.
type NewsSentiment struct {
	Polarity float64 `json:"polarity"`
	Neg      float64 `json:"neg"`
	Neu      float64 `json:"neu"`
	Pos      float64 `json:"pos"`
}

var _ news.Provider = (*Client)(nil)

// FetchArticles retrieves news tagged with the query ticker.
func (c *Client) FetchArticles(ctx context.Context, q news.Query) ([]models.Article, error) {
	params := url.Values{}
	params.Set("s", c.Symbol(q.Ticker))
	limit := q.Limit
	if limit <= 0 {
		limit = news.DefaultPageSize
	}
	params.Set("limit", fmt.Sprintf("%d", limit))
	if !q.From.IsZero() {
		params.Set("from", q.From.Format("2006-01-02"))
	}
	if !q.To.IsZero() {
		params.Set("to", q.To.Format("2006-01-02"))
	}

	var items []NewsItem
	if err := c.get(ctx, "/news", params, &items); err != nil {
		return nil, err
	}

	out := make([]models.Article, 0, len(items))
	for _, it := range items {
		out = append(out, models.Article{
			Source:      "EODHD",
			Title:       it.Title,
			Description: news.Excerpt(it.Content, 280),
			Content:     it.Content,
			URL:         it.Link,
			PublishedAt: parseNewsDate(it.Date),
		})
	}
	return out, nil
}

func parseNewsDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-07:00", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
