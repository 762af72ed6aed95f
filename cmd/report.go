package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/indicators"
	"github.com/guttosm/equifolio/internal/logger"
	"github.com/guttosm/equifolio/internal/marketdata"
	"github.com/guttosm/equifolio/internal/marketdata/csvfeed"
	"github.com/guttosm/equifolio/internal/risk"
	"github.com/guttosm/equifolio/internal/service"
)

// Online loads run defaultParallel fetches at once unless --parallel says
// otherwise, never more than maxParallel.
const (
	defaultParallel = 4
	maxParallel     = 16
)

// reportOptions drives report mode.
type reportOptions struct {
	Tickers  []string
	Period   string
	DataDir  string // offline when set
	Parallel int
}

// Report is the JSON document printed by report mode.
type Report struct {
	GeneratedAt time.Time                      `json:"generated_at"`
	Period      string                         `json:"period"`
	Excluded    []string                       `json:"excluded,omitempty"`
	Portfolio   *models.PortfolioMetrics       `json:"portfolio"`
	Formatted   models.RiskMetricsText         `json:"formatted"`
	Latest      map[string]models.IndicatorRow `json:"latest_indicators"`
}

func parseTickers(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := marketdata.NormalizeTicker(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// loadSeries reads the price histories. Offline runs fail on the first bad
// file; online runs exclude tickers the provider could not serve.
func loadSeries(ctx context.Context, opts reportOptions, online marketdata.PriceProvider) ([]models.PriceSeries, error) {
	if opts.DataDir != "" {
		return csvfeed.New(opts.DataDir).LoadDirectory(ctx, opts.Tickers, opts.Period, opts.Parallel)
	}

	out := make([]models.PriceSeries, len(opts.Tickers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchLimit(opts.Parallel))
	for i, t := range opts.Tickers {
		g.Go(func() error {
			s, err := online.FetchPriceSeries(gctx, t, opts.Period, marketdata.DefaultInterval)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.L().Warn().Str("ticker", t).Err(err).Msg("excluding ticker from report")
				s = models.PriceSeries{Ticker: t}
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func fetchLimit(parallel int) int {
	if parallel <= 0 {
		return defaultParallel
	}
	return min(parallel, maxParallel)
}

// buildReport runs the risk and indicator engines over series.
func buildReport(series []models.PriceSeries, period string, now time.Time) (*Report, error) {
	m, err := risk.Compute(series, nil)
	if err != nil {
		return nil, err
	}
	rep := &Report{
		GeneratedAt: now.UTC(),
		Period:      period,
		Portfolio:   m,
		Formatted:   service.FormatMetrics(m),
		Latest:      make(map[string]models.IndicatorRow, len(series)),
	}
	for _, s := range series {
		if !slices.Contains(m.Tickers, s.Ticker) {
			rep.Excluded = append(rep.Excluded, s.Ticker)
		}
		if row, ok := indicators.Latest(s); ok {
			rep.Latest[s.Ticker] = row
		}
	}
	return rep, nil
}

// runReport loads the series, builds the report and writes it as JSON to w.
func runReport(ctx context.Context, w io.Writer, opts reportOptions, online marketdata.PriceProvider) error {
	if len(opts.Tickers) == 0 {
		return fmt.Errorf("report mode needs --tickers")
	}
	if len(opts.Tickers) > service.MaxPortfolioSize {
		return fmt.Errorf("at most %d tickers are allowed, got %d", service.MaxPortfolioSize, len(opts.Tickers))
	}
	seen := make(map[string]struct{}, len(opts.Tickers))
	for _, t := range opts.Tickers {
		if _, dup := seen[t]; dup {
			return fmt.Errorf("duplicate ticker %s", t)
		}
		seen[t] = struct{}{}
	}
	p, err := marketdata.ParsePeriod(opts.Period)
	if err != nil {
		return err
	}
	opts.Period = p.Name

	series, err := loadSeries(ctx, opts, online)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}
	rep, err := buildReport(series, opts.Period, time.Now())
	if err != nil {
		return fmt.Errorf("compute report: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
