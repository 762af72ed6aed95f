// Package news fetches company news articles.
package news

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/guttosm/equifolio/internal/domain/models"
)

// DefaultPageSize is the number of articles requested when Query.Limit is 0.
const DefaultPageSize = 20

// Query selects articles about one company.
type Query struct {
	Ticker  string
	Company string // optional display name, widens full-text searches
	From    time.Time
	To      time.Time
	Limit   int
}

// NewQuery covers the last daysBack days ending at now.
func NewQuery(ticker, company string, daysBack int, now time.Time) Query {
	return Query{
		Ticker:  strings.ToUpper(strings.TrimSpace(ticker)),
		Company: strings.TrimSpace(company),
		From:    now.AddDate(0, 0, -daysBack),
		To:      now,
		Limit:   DefaultPageSize,
	}
}

// Provider returns articles matching a query, most relevant first.
type Provider interface {
	FetchArticles(ctx context.Context, q Query) ([]models.Article, error)
}

// Excerpt shortens s to at most n runes on a word boundary.
func Excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)[:n]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
