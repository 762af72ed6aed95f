package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/equifolio/internal/domain/models"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newSentiment(n *fakeNews, gen *recorder) *sentimentService {
	svc := NewSentimentService(n, &fakeInfo{infos: map[string]models.CompanyInfo{"AAPL": {"shortName": "Apple Inc."}}}, gen).(*sentimentService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func articles(n int) []models.Article {
	out := make([]models.Article, n)
	for i := range out {
		out[i] = models.Article{
			Title:       fmt.Sprintf("headline %d", i),
			Description: "desc",
			URL:         fmt.Sprintf("https://news.test/%d", i),
			PublishedAt: fixedNow.Add(-time.Duration(i) * time.Hour),
		}
	}
	out[0].Source = "Reuters"
	return out
}

// scoreByTitle answers article prompts with a score derived from the headline
// and summary prompts with a fixed text.
func scoreByTitle(prompt string) (string, error) {
	if strings.Contains(prompt, "sentiment analyses of recent news") {
		return "mostly upbeat", nil
	}
	if strings.Contains(prompt, "headline 1\n") {
		return `Sure! {"sentiment_score": -0.5, "confidence": 0.9, "key_drivers": ["guidance", "margins"], "market_impact": "down"}`, nil
	}
	return `{"sentiment_score": 0.5, "confidence": 0.7, "key_drivers": "beat", "market_impact": "up"}`, nil
}

func TestSentimentService_Analyze(t *testing.T) {
	n := &fakeNews{articles: articles(12)}
	gen := &recorder{reply: scoreByTitle}

	rep, err := newSentiment(n, gen).Analyze(context.Background(), "aapl", 0)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", n.query.Ticker)
	assert.Equal(t, "Apple Inc.", n.query.Company)
	assert.Equal(t, fixedNow.AddDate(0, 0, -DefaultDaysBack), n.query.From)

	require.Equal(t, maxArticles, rep.ArticlesAnalyzed)
	require.Len(t, rep.DetailedAnalyses, maxArticles)
	assert.InDelta(t, (9*0.5-0.5)/10, rep.AverageSentiment, 1e-9)
	assert.Equal(t, "mostly upbeat", rep.Summary)

	first, second := rep.DetailedAnalyses[0], rep.DetailedAnalyses[1]
	assert.Equal(t, "Reuters", first.Source)
	assert.Equal(t, "Unknown", second.Source)
	assert.Equal(t, "headline 1", second.Title)
	assert.Equal(t, "guidance, margins", second.KeyDrivers)
	assert.Equal(t, "2024-06-15T11:00:00Z", second.PublishedAt)

	summary := gen.find("sentiment analyses of recent news")
	assert.Contains(t, summary, "Sentiment Score: -0.50")
}

func TestSentimentService_DropsFailedArticles(t *testing.T) {
	gen := &recorder{reply: func(p string) (string, error) {
		if strings.Contains(p, "headline 0\n") {
			return "", errors.New("rate limited")
		}
		return scoreByTitle(p)
	}}
	rep, err := newSentiment(&fakeNews{articles: articles(3)}, gen).Analyze(context.Background(), "AAPL", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.ArticlesAnalyzed)
	assert.Equal(t, "headline 1", rep.DetailedAnalyses[0].Title)
}

func TestSentimentService_SummaryFailure(t *testing.T) {
	gen := &recorder{reply: func(p string) (string, error) {
		if strings.Contains(p, "sentiment analyses of recent news") {
			return "", errors.New("overloaded")
		}
		return scoreByTitle(p)
	}}
	rep, err := newSentiment(&fakeNews{articles: articles(2)}, gen).Analyze(context.Background(), "AAPL", 1)
	require.NoError(t, err)
	assert.Equal(t, "Could not generate summary. Error: overloaded", rep.Summary)
}

func TestSentimentService_Errors(t *testing.T) {
	failing := &recorder{reply: func(string) (string, error) { return "", errors.New("down") }}
	cases := []struct {
		name     string
		ticker   string
		daysBack int
		news     *fakeNews
		gen      *recorder
		wantErr  error
	}{
		{name: "empty ticker", ticker: "", wantErr: ErrInvalidInput},
		{name: "negative days", ticker: "AAPL", daysBack: -1, wantErr: ErrInvalidInput},
		{name: "too many days", ticker: "AAPL", daysBack: MaxDaysBack + 1, wantErr: ErrInvalidInput},
		{name: "no articles", ticker: "AAPL", news: &fakeNews{}, wantErr: ErrNoArticles},
		{name: "news failure", ticker: "AAPL", news: &fakeNews{err: errors.New("401")}, wantErr: ErrUpstream},
		{name: "every article fails", ticker: "AAPL", news: &fakeNews{articles: articles(2)}, gen: failing, wantErr: ErrUpstream},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := tc.news
			if n == nil {
				n = &fakeNews{articles: articles(1)}
			}
			gen := tc.gen
			if gen == nil {
				gen = &recorder{reply: scoreByTitle}
			}
			_, err := newSentiment(n, gen).Analyze(context.Background(), tc.ticker, tc.daysBack)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestParseSentiment(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  models.ArticleSentiment
	}{
		{
			name:  "plain json",
			reply: `{"sentiment_score": 0.3, "confidence": 0.8, "key_drivers": "x", "market_impact": "y"}`,
			want:  models.ArticleSentiment{SentimentScore: 0.3, Confidence: 0.8, KeyDrivers: "x", MarketImpact: "y"},
		},
		{
			name:  "fenced with prose",
			reply: "Here you go:\n```json\n{\"sentiment_score\": -0.2, \"confidence\": 0.6, \"key_drivers\": \"a\", \"market_impact\": \"b\"}\n```",
			want:  models.ArticleSentiment{SentimentScore: -0.2, Confidence: 0.6, KeyDrivers: "a", MarketImpact: "b"},
		},
		{
			name:  "clamped",
			reply: `{"sentiment_score": 3, "confidence": -1}`,
			want:  models.ArticleSentiment{SentimentScore: 1, Confidence: 0, KeyDrivers: unparsed, MarketImpact: unparsed},
		},
		{
			name:  "no json",
			reply: "I cannot answer that.",
			want:  models.ArticleSentiment{Confidence: 0.5, KeyDrivers: unparsed, MarketImpact: unparsed},
		},
		{
			name:  "broken json",
			reply: `{"sentiment_score": 0.4,`,
			want:  models.ArticleSentiment{Confidence: 0.5, KeyDrivers: unparsed, MarketImpact: unparsed},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseSentiment(tc.reply))
		})
	}
}
