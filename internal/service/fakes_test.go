package service

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/llm"
	"github.com/guttosm/equifolio/internal/news"
)

type fakePrices struct {
	series map[string]models.PriceSeries
	errs   map[string]error

	mu    sync.Mutex
	calls []string
}

func (f *fakePrices) FetchPriceSeries(_ context.Context, ticker, period, interval string) (models.PriceSeries, error) {
	f.mu.Lock()
	f.calls = append(f.calls, ticker+"|"+period+"|"+interval)
	f.mu.Unlock()
	if err := f.errs[ticker]; err != nil {
		return models.PriceSeries{}, err
	}
	return f.series[ticker], nil
}

type fakeInfo struct {
	infos map[string]models.CompanyInfo
	err   error
}

func (f *fakeInfo) FetchCompanyInfo(_ context.Context, ticker string) (models.CompanyInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.infos[ticker], nil
}

type fakeStatements struct {
	statements []models.FinancialStatement
	err        error
}

func (f *fakeStatements) FetchStatements(context.Context, string) ([]models.FinancialStatement, error) {
	return f.statements, f.err
}

type fakeNews struct {
	articles []models.Article
	err      error
	query    news.Query
}

func (f *fakeNews) FetchArticles(_ context.Context, q news.Query) ([]models.Article, error) {
	f.query = q
	return f.articles, f.err
}

// recorder is a Generator that answers with reply and keeps every prompt.
type recorder struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (string, error)
}

func (r *recorder) Generate(_ context.Context, prompt string) (string, error) {
	r.mu.Lock()
	r.prompts = append(r.prompts, prompt)
	r.mu.Unlock()
	if r.reply == nil {
		return "narrative", nil
	}
	return r.reply(prompt)
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.prompts) == 0 {
		return ""
	}
	return r.prompts[len(r.prompts)-1]
}

func (r *recorder) find(substr string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.prompts {
		if strings.Contains(p, substr) {
			return p
		}
	}
	return ""
}

var _ llm.Generator = (*recorder)(nil)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// seriesOf builds a daily series with the given closes.
func seriesOf(ticker string, closes ...float64) models.PriceSeries {
	s := models.PriceSeries{Ticker: ticker}
	for i, c := range closes {
		s.Bars = append(s.Bars, models.Bar{
			Date:   day0.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		})
	}
	return s
}

// waveCloses oscillates around 100 so every indicator gets defined.
func waveCloses(n int, phase float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 5*math.Sin(float64(i)/3+phase) + float64(i)/10
	}
	return out
}
