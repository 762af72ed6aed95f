package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/llm"
	"github.com/guttosm/equifolio/internal/logger"
	"github.com/guttosm/equifolio/internal/marketdata"
	"github.com/guttosm/equifolio/internal/prompt"
	"github.com/guttosm/equifolio/internal/risk"
)

// fetchParallelism bounds concurrent provider calls per request.
const fetchParallelism = 4

const unknownSector = "Unknown"

// RiskService computes portfolio risk, with or without the LLM narrative.
type RiskService interface {
	Analyze(ctx context.Context, tickers []string, period string, weights []float64) (*models.RiskReport, error)
	Metrics(ctx context.Context, tickers []string, period string, weights []float64) (*models.PortfolioMetrics, error)
}

type riskService struct {
	prices marketdata.PriceProvider
	info   marketdata.InfoProvider
	gen    llm.Generator
}

// NewRiskService wires the data sources and the LLM. info and gen may be nil
// when only Metrics is used.
func NewRiskService(prices marketdata.PriceProvider, info marketdata.InfoProvider, gen llm.Generator) RiskService {
	return &riskService{prices: prices, info: info, gen: gen}
}

func (s *riskService) Metrics(ctx context.Context, tickers []string, period string, weights []float64) (*models.PortfolioMetrics, error) {
	ts, p, err := validatePortfolio(tickers, period, weights)
	if err != nil {
		return nil, err
	}
	return s.metrics(ctx, ts, p, weights)
}

func (s *riskService) Analyze(ctx context.Context, tickers []string, period string, weights []float64) (*models.RiskReport, error) {
	ts, p, err := validatePortfolio(tickers, period, weights)
	if err != nil {
		return nil, err
	}
	if s.gen == nil {
		return nil, fmt.Errorf("%w: no LLM configured", ErrUpstream)
	}

	m, err := s.metrics(ctx, ts, p, weights)
	if err != nil {
		return nil, err
	}
	sectors := s.sectorBreakdown(ctx, ts)
	text := FormatMetrics(m)

	rendered, err := prompt.Risk(prompt.RiskData{
		Tickers:          ts,
		PortfolioSummary: portfolioSummary(ts, p),
		RiskMetrics:      metricsBlock(text),
		CorrelationData:  correlationTable(m.Correlation),
		SectorExposure:   sectorLines(sectors),
	})
	if err != nil {
		return nil, err
	}
	analysis, err := s.gen.Generate(ctx, rendered)
	if err != nil {
		return nil, classify("risk analysis", err)
	}

	return &models.RiskReport{
		Tickers:         ts,
		Period:          p,
		Excluded:        excluded(ts, m.Tickers),
		Metrics:         text,
		SectorBreakdown: sectors,
		Analysis:        analysis,
	}, nil
}

func validatePortfolio(tickers []string, period string, weights []float64) ([]string, string, error) {
	ts, err := normalizeTickers(tickers)
	if err != nil {
		return nil, "", err
	}
	p, err := normalizePeriod(period)
	if err != nil {
		return nil, "", err
	}
	if weights != nil && len(weights) != len(ts) {
		return nil, "", invalid("got %d weights for %d tickers", len(weights), len(ts))
	}
	return ts, p, nil
}

// metrics fetches every series concurrently. A ticker whose fetch fails is
// left empty, which makes the engine exclude it.
func (s *riskService) metrics(ctx context.Context, tickers []string, period string, weights []float64) (*models.PortfolioMetrics, error) {
	series := make([]models.PriceSeries, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchParallelism)
	for i, t := range tickers {
		g.Go(func() error {
			ps, err := s.prices.FetchPriceSeries(gctx, t, period, marketdata.DefaultInterval)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.L().Warn().Str("ticker", t).Err(err).Msg("excluding ticker from portfolio")
				ps = models.PriceSeries{Ticker: t}
			}
			series[i] = ps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m, err := risk.Compute(series, weights)
	switch {
	case errors.Is(err, risk.ErrNoData):
		return nil, fmt.Errorf("%w: could not calculate portfolio metrics: %w", ErrNoData, err)
	case errors.Is(err, risk.ErrWeightsMismatch):
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case err != nil:
		return nil, err
	}
	return m, nil
}

// sectorBreakdown returns the percentage of tickers per sector.
func (s *riskService) sectorBreakdown(ctx context.Context, tickers []string) map[string]float64 {
	sectors := make([]string, len(tickers))
	var g errgroup.Group
	g.SetLimit(fetchParallelism)
	for i, t := range tickers {
		g.Go(func() error {
			sectors[i] = unknownSector
			if s.info == nil {
				return nil
			}
			info, err := s.info.FetchCompanyInfo(ctx, t)
			if err != nil {
				logger.L().Debug().Str("ticker", t).Err(err).Msg("sector lookup failed")
				return nil
			}
			if sec := info.String("sector"); sec != "" {
				sectors[i] = sec
			}
			return nil
		})
	}
	_ = g.Wait()

	out := map[string]float64{}
	for _, sec := range sectors {
		out[sec] += 100 / float64(len(tickers))
	}
	return out
}

// FormatMetrics renders PortfolioMetrics for display. An undefined Sharpe
// ratio renders as N/A.
func FormatMetrics(m *models.PortfolioMetrics) models.RiskMetricsText {
	return models.RiskMetricsText{
		AnnualizedReturn:     fmt.Sprintf("%.2f%%", m.AnnualizedReturn),
		AnnualizedVolatility: fmt.Sprintf("%.2f%%", m.AnnualizedVolatility),
		SharpeRatio:          decimals(m.Sharpe, 2),
		MaxDrawdown:          fmt.Sprintf("%.2f%%", m.MaxDrawdown),
		VaR95:                fmt.Sprintf("%.2f%%", m.VaR95),
		AverageCorrelation:   fmt.Sprintf("%.2f", m.AverageCorrelation),
	}
}

func portfolioSummary(tickers []string, period string) string {
	return fmt.Sprintf("Number of Stocks: %d\nStocks: %s\nAnalysis Period: %s",
		len(tickers), strings.Join(tickers, ", "), period)
}

func metricsBlock(t models.RiskMetricsText) string {
	return strings.Join([]string{
		"Annualized Return: " + t.AnnualizedReturn,
		"Annualized Volatility: " + t.AnnualizedVolatility,
		"Sharpe Ratio: " + t.SharpeRatio,
		"Maximum Drawdown: " + t.MaxDrawdown,
		"Value at Risk (95%): " + t.VaR95,
		"Average Correlation: " + t.AverageCorrelation,
	}, "\n")
}

func sectorLines(sectors map[string]float64) string {
	names := make([]string, 0, len(sectors))
	for name := range sectors {
		names = append(names, name)
	}
	slices.Sort(names)
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%s: %.2f%%", name, sectors[name])
	}
	return strings.Join(lines, "\n")
}

func excluded(requested, included []string) []string {
	var out []string
	for _, t := range requested {
		if !slices.Contains(included, t) {
			out = append(out, t)
		}
	}
	return out
}
