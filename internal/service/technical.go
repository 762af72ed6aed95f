package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/guregu/null/v6"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/indicators"
	"github.com/guttosm/equifolio/internal/llm"
	"github.com/guttosm/equifolio/internal/logger"
	"github.com/guttosm/equifolio/internal/marketdata"
	"github.com/guttosm/equifolio/internal/prompt"
)

// RSI thresholds used to label momentum.
const (
	rsiOverbought = 70
	rsiOversold   = 30
)

// TechnicalService produces an indicator based narrative for one ticker.
type TechnicalService interface {
	Analyze(ctx context.Context, ticker, period string) (*models.TechnicalReport, error)
}

// IndicatorService returns raw indicator rows without calling the LLM.
type IndicatorService interface {
	Indicators(ctx context.Context, ticker, period, interval string) (*models.IndicatorSeries, error)
}

type technicalService struct {
	prices marketdata.PriceProvider
	gen    llm.Generator
}

// NewTechnicalService wires the price source and the LLM.
func NewTechnicalService(prices marketdata.PriceProvider, gen llm.Generator) TechnicalService {
	return &technicalService{prices: prices, gen: gen}
}

type indicatorService struct {
	prices marketdata.PriceProvider
}

// NewIndicatorService returns an IndicatorService reading from prices.
func NewIndicatorService(prices marketdata.PriceProvider) IndicatorService {
	return &indicatorService{prices: prices}
}

func (s *indicatorService) Indicators(ctx context.Context, ticker, period, interval string) (*models.IndicatorSeries, error) {
	t, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	p, err := normalizePeriod(period)
	if err != nil {
		return nil, err
	}
	iv, err := marketdata.NormalizeInterval(interval)
	if err != nil {
		return nil, invalid("%v", err)
	}
	series, err := fetchSeries(ctx, s.prices, t, p, iv)
	if err != nil {
		return nil, err
	}
	out := indicators.Compute(series)
	return &out, nil
}

func (s *technicalService) Analyze(ctx context.Context, ticker, period string) (*models.TechnicalReport, error) {
	t, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	p, err := normalizePeriod(period)
	if err != nil {
		return nil, err
	}

	series, err := fetchSeries(ctx, s.prices, t, p, marketdata.DefaultInterval)
	if err != nil {
		return nil, err
	}
	ind := indicators.Compute(series)
	last, _ := ind.Last()

	priceSummary := summarizePrices(series)
	indicatorSummary := summarizeIndicators(ind, series)

	text, err := prompt.Technical(prompt.TechnicalData{
		Ticker:        t,
		Period:        p,
		PriceData:     priceSummary,
		IndicatorData: indicatorSummary,
	})
	if err != nil {
		return nil, err
	}
	analysis, err := s.gen.Generate(ctx, text)
	if err != nil {
		return nil, classify("technical analysis", err)
	}

	return &models.TechnicalReport{
		Ticker: t,
		Period: p,
		KeyMetrics: map[string]string{
			"Current Price": money(null.FloatFrom(last.Close)),
			"RSI":           decimals(last.RSI, 2),
			"MACD":          decimals(last.MACD, 3),
			"20-day SMA":    money(last.SMA20),
			"50-day SMA":    money(last.SMA50),
			"Upper BB":      money(last.BBUpper),
			"Lower BB":      money(last.BBLower),
		},
		PriceSummary:     priceSummary,
		IndicatorSummary: indicatorSummary,
		Analysis:         analysis,
	}, nil
}

// fetchSeries loads a series and turns an empty one into ErrNoData.
func fetchSeries(ctx context.Context, prices marketdata.PriceProvider, ticker, period, interval string) (models.PriceSeries, error) {
	series, err := prices.FetchPriceSeries(ctx, ticker, period, interval)
	if err != nil {
		logger.L().Warn().Str("ticker", ticker).Str("period", period).Err(err).Msg("price fetch failed")
		return models.PriceSeries{}, classify("prices for "+ticker, err)
	}
	if series.Len() == 0 {
		return models.PriceSeries{}, fmt.Errorf("%w: could not fetch stock data for %s", ErrNoData, ticker)
	}
	return series, nil
}

func summarizePrices(s models.PriceSeries) string {
	first, last := s.First(), s.Last()
	change := last.Close - first.Close
	pct := 0.0
	if first.Close != 0 {
		pct = change / first.Close * 100
	}

	high, low, volume := first.High, first.Low, 0.0
	for _, b := range s.Bars {
		high = max(high, b.High)
		low = min(low, b.Low)
		volume += b.Volume
	}

	lines := []string{
		fmt.Sprintf("Current Price: $%.2f", last.Close),
		fmt.Sprintf("Price Change: $%.2f (%.2f%%)", change, pct),
		fmt.Sprintf("Highest Price: $%.2f", high),
		fmt.Sprintf("Lowest Price: $%.2f", low),
		fmt.Sprintf("Average Daily Volume: %.0f", volume/float64(s.Len())),
		fmt.Sprintf("Data Period: %s to %s", first.Date.Format("2006-01-02"), last.Date.Format("2006-01-02")),
	}
	return strings.Join(lines, "\n")
}

func aboveOrBelow(price float64, level null.Float) string {
	if price > level.Float64 {
		return "above"
	}
	return "below"
}

func summarizeIndicators(ind models.IndicatorSeries, s models.PriceSeries) string {
	last, ok := ind.Last()
	if !ok {
		return "No indicator data available"
	}
	c := last.Close
	var b strings.Builder

	b.WriteString("Moving Averages:\n")
	for _, ma := range []struct {
		label string
		v     null.Float
	}{{"20-day SMA", last.SMA20}, {"50-day SMA", last.SMA50}} {
		if ma.v.Valid {
			fmt.Fprintf(&b, "- Price is %s the %s ($%.2f)\n", aboveOrBelow(c, ma.v), ma.label, ma.v.Float64)
		} else {
			fmt.Fprintf(&b, "- %s not available (insufficient history)\n", ma.label)
		}
	}

	b.WriteString("\nBollinger Bands:\n")
	if last.BBUpper.Valid && last.BBLower.Valid {
		status := "within Bollinger Bands"
		switch {
		case c > last.BBUpper.Float64:
			status = "above upper Bollinger Band (potentially overbought)"
		case c < last.BBLower.Float64:
			status = "below lower Bollinger Band (potentially oversold)"
		}
		fmt.Fprintf(&b, "- Current price is %s\n", status)
		fmt.Fprintf(&b, "- Upper band: $%.2f\n", last.BBUpper.Float64)
		fmt.Fprintf(&b, "- Lower band: $%.2f\n", last.BBLower.Float64)
	} else {
		b.WriteString("- Not available (insufficient history)\n")
	}

	b.WriteString("\nRSI:\n")
	if last.RSI.Valid {
		status := "neutral"
		switch {
		case last.RSI.Float64 > rsiOverbought:
			status = "overbought"
		case last.RSI.Float64 < rsiOversold:
			status = "oversold"
		}
		fmt.Fprintf(&b, "- Current RSI: %.2f (%s)\n", last.RSI.Float64, status)
	} else {
		b.WriteString("- Not available (insufficient history)\n")
	}

	status := "bearish"
	if last.MACD.Float64 > last.MACDSignal.Float64 {
		status = "bullish"
	}
	b.WriteString("\nMACD:\n")
	fmt.Fprintf(&b, "- MACD line: %.3f\n", last.MACD.Float64)
	fmt.Fprintf(&b, "- Signal line: %.3f\n", last.MACDSignal.Float64)
	fmt.Fprintf(&b, "- MACD is %s\n", status)

	b.WriteString("\nRecent Trend:\n")
	if n := s.Len(); n >= 5 && s.Bars[n-5].Close != 0 {
		ref := s.Bars[n-5].Close
		fmt.Fprintf(&b, "- 5-day price change: %.2f%%", (s.Bars[n-1].Close-ref)/ref*100)
	} else {
		b.WriteString("- Insufficient data for 5-day trend")
	}
	return b.String()
}
