package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/llm"
	"github.com/guttosm/equifolio/internal/logger"
	"github.com/guttosm/equifolio/internal/marketdata"
	"github.com/guttosm/equifolio/internal/news"
	"github.com/guttosm/equifolio/internal/prompt"
)

const (
	// maxArticles caps LLM calls per request.
	maxArticles = 10
	// articleParallelism bounds concurrent per-article LLM calls.
	articleParallelism = 4

	unparsed = "Could not parse from model output"
)

// SentimentService scores recent news about a ticker.
type SentimentService interface {
	Analyze(ctx context.Context, ticker string, daysBack int) (*models.SentimentReport, error)
}

type sentimentService struct {
	news news.Provider
	info marketdata.InfoProvider
	gen  llm.Generator
	now  func() time.Time
}

// NewSentimentService wires the news source and the LLM. info is optional and
// only used to widen the news query with the company name.
func NewSentimentService(newsProvider news.Provider, info marketdata.InfoProvider, gen llm.Generator) SentimentService {
	return &sentimentService{news: newsProvider, info: info, gen: gen, now: time.Now}
}

func (s *sentimentService) Analyze(ctx context.Context, ticker string, daysBack int) (*models.SentimentReport, error) {
	t, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	if daysBack == 0 {
		daysBack = DefaultDaysBack
	}
	if daysBack < 1 || daysBack > MaxDaysBack {
		return nil, invalid("days_back must be between 1 and %d, got %d", MaxDaysBack, daysBack)
	}

	q := news.NewQuery(t, s.companyName(ctx, t), daysBack, s.now().UTC())
	articles, err := s.news.FetchArticles(ctx, q)
	if err != nil {
		logger.L().Warn().Str("ticker", t).Err(err).Msg("news fetch failed")
		return nil, classify("news for "+t, err)
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w: no news articles found for %s in the past %d days", ErrNoArticles, t, daysBack)
	}
	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}

	analyses, err := s.analyzeArticles(ctx, articles)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, a := range analyses {
		total += a.SentimentScore
	}

	summary := s.summarize(ctx, t, analyses)

	return &models.SentimentReport{
		Ticker:           t,
		AverageSentiment: total / float64(len(analyses)),
		ArticlesAnalyzed: len(analyses),
		Summary:          summary,
		DetailedAnalyses: analyses,
	}, nil
}

func (s *sentimentService) companyName(ctx context.Context, ticker string) string {
	if s.info == nil {
		return ""
	}
	info, err := s.info.FetchCompanyInfo(ctx, ticker)
	if err != nil {
		logger.L().Debug().Str("ticker", ticker).Err(err).Msg("company name lookup failed")
		return ""
	}
	return info.String("shortName")
}

// analyzeArticles scores articles concurrently, keeping their order.
// Articles the model could not score are dropped; none at all is an error.
func (s *sentimentService) analyzeArticles(ctx context.Context, articles []models.Article) ([]models.ArticleSentiment, error) {
	results := make([]*models.ArticleSentiment, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(articleParallelism)
	for i, a := range articles {
		g.Go(func() error {
			res, err := s.analyzeArticle(gctx, a)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.L().Warn().Str("title", a.Title).Err(err).Msg("article analysis failed")
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.ArticleSentiment, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: failed to analyze any articles", ErrUpstream)
	}
	return out, nil
}

func (s *sentimentService) analyzeArticle(ctx context.Context, a models.Article) (*models.ArticleSentiment, error) {
	text, err := prompt.Article(prompt.ArticleData{Title: a.Title, Description: a.Description, Content: a.Content})
	if err != nil {
		return nil, err
	}
	reply, err := s.gen.Generate(ctx, text)
	if err != nil {
		return nil, err
	}

	res := parseSentiment(reply)
	res.Source = orDefault(a.Source, "Unknown")
	res.Title = a.Title
	res.URL = a.URL
	if !a.PublishedAt.IsZero() {
		res.PublishedAt = a.PublishedAt.UTC().Format(time.RFC3339)
	}
	return &res, nil
}

func (s *sentimentService) summarize(ctx context.Context, ticker string, analyses []models.ArticleSentiment) string {
	text, err := prompt.SentimentSummary(prompt.SentimentSummaryData{Ticker: ticker, Analyses: analyses})
	if err == nil {
		var summary string
		if summary, err = s.gen.Generate(ctx, text); err == nil {
			return summary
		}
	}
	logger.L().Warn().Str("ticker", ticker).Err(err).Msg("sentiment summary failed")
	return "Could not generate summary. Error: " + err.Error()
}

// jsonObject matches the outermost {...} span of a model reply.
var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

type sentimentReply struct {
	SentimentScore *float64 `json:"sentiment_score"`
	Confidence     *float64 `json:"confidence"`
	KeyDrivers     any      `json:"key_drivers"`
	MarketImpact   any      `json:"market_impact"`
}

// parseSentiment extracts the JSON object from reply. Unparseable replies
// score 0 with confidence 0.5. Scores are clamped to [-1, 1] and
// confidence to [0, 1].
func parseSentiment(reply string) models.ArticleSentiment {
	fallback := models.ArticleSentiment{
		SentimentScore: 0,
		Confidence:     0.5,
		KeyDrivers:     unparsed,
		MarketImpact:   unparsed,
	}

	span := jsonObject.FindString(reply)
	if span == "" {
		return fallback
	}
	var r sentimentReply
	if err := json.Unmarshal([]byte(span), &r); err != nil {
		logger.L().Debug().Err(err).Msg("model reply is not valid JSON")
		return fallback
	}

	out := fallback
	if r.SentimentScore != nil {
		out.SentimentScore = clamp(*r.SentimentScore, -1, 1)
	}
	if r.Confidence != nil {
		out.Confidence = clamp(*r.Confidence, 0, 1)
	}
	out.KeyDrivers = textOf(r.KeyDrivers, out.KeyDrivers)
	out.MarketImpact = textOf(r.MarketImpact, out.MarketImpact)
	return out
}

// textOf accepts a string or a list of strings.
func textOf(v any, def string) string {
	switch t := v.(type) {
	case string:
		return orDefault(t, def)
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}
	return def
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
