// Package risk computes portfolio level statistics from daily price series.
package risk

import (
	"errors"
	"fmt"
	"math"

	"github.com/guregu/null/v6"

	"github.com/guttosm/equifolio/internal/domain/models"
)

// TradingDays is the number of sessions used to annualize daily figures.
const TradingDays = 252

// VaRLevel is the lower-tail quantile used for Value-at-Risk.
const VaRLevel = 0.05

var (
	// ErrNoData is returned when no ticker has at least one daily return,
	// or when the usable tickers share no dates.
	ErrNoData = errors.New("risk: no usable price data")
	// ErrDivisionByZero is returned by SharpeRatio for zero volatility.
	ErrDivisionByZero = errors.New("risk: division by zero")
	// ErrWeightsMismatch is returned when weights do not line up with the input series.
	ErrWeightsMismatch = errors.New("risk: weights do not match series")
)

// SharpeRatio divides annualized return by annualized volatility with a zero
// risk-free rate.
func SharpeRatio(annualReturn, annualVolatility float64) (float64, error) {
	if annualVolatility == 0 {
		return 0, ErrDivisionByZero
	}
	return annualReturn / annualVolatility, nil
}

type returnSeries struct {
	ticker string
	dates  []string
	values []float64
	byDate map[string]float64
}

// Compute derives PortfolioMetrics from series.
//
// weights may be nil for an equal-weight portfolio. Otherwise it must hold
// one finite entry per element of series, in the same order; entries of
// series that end up excluded are dropped and the rest are used as given.
// A series is excluded when it yields no daily return.
func Compute(series []models.PriceSeries, weights []float64) (*models.PortfolioMetrics, error) {
	if weights != nil {
		if len(weights) != len(series) {
			return nil, fmt.Errorf("%w: %d weights for %d series", ErrWeightsMismatch, len(weights), len(series))
		}
		for i, w := range weights {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("%w: weight %d is not finite", ErrWeightsMismatch, i)
			}
		}
	}

	var included []returnSeries
	var used []float64
	for i, s := range series {
		rs := dailyReturns(s)
		if len(rs.values) == 0 {
			continue
		}
		included = append(included, rs)
		if weights != nil {
			used = append(used, weights[i])
		}
	}
	if len(included) == 0 {
		return nil, ErrNoData
	}
	if weights == nil {
		used = make([]float64, len(included))
		for i := range used {
			used[i] = 1 / float64(len(included))
		}
	}

	portfolio := combine(included, used)
	if len(portfolio) == 0 {
		return nil, fmt.Errorf("%w: tickers share no trading dates", ErrNoData)
	}

	m := &models.PortfolioMetrics{
		Tickers:              make([]string, len(included)),
		Weights:              used,
		Observations:         len(portfolio),
		AnnualizedReturn:     mean(portfolio) * TradingDays * 100,
		AnnualizedVolatility: sampleStd(portfolio) * math.Sqrt(TradingDays) * 100,
		MaxDrawdown:          maxDrawdown(portfolio) * 100,
		VaR95:                quantile(portfolio, VaRLevel) * 100,
	}
	for i, rs := range included {
		m.Tickers[i] = rs.ticker
	}
	if sr, err := SharpeRatio(m.AnnualizedReturn, m.AnnualizedVolatility); err == nil {
		m.Sharpe = null.FloatFrom(sr)
	}
	m.Correlation = correlation(included)
	m.AverageCorrelation = averageUpper(m.Correlation)
	return m, nil
}

// dailyReturns returns close-to-close simple returns keyed by the date of
// the later bar. Pairs with a non-positive or non-finite previous close are
// skipped.
func dailyReturns(s models.PriceSeries) returnSeries {
	rs := returnSeries{ticker: s.Ticker, byDate: map[string]float64{}}
	for i := 1; i < len(s.Bars); i++ {
		prev, cur := s.Bars[i-1].Close, s.Bars[i].Close
		if prev <= 0 || math.IsNaN(prev) || math.IsInf(prev, 0) || math.IsNaN(cur) || math.IsInf(cur, 0) {
			continue
		}
		key := s.Bars[i].Date.Format("2006-01-02")
		if _, dup := rs.byDate[key]; dup {
			continue
		}
		r := cur/prev - 1
		rs.dates = append(rs.dates, key)
		rs.values = append(rs.values, r)
		rs.byDate[key] = r
	}
	return rs
}

// combine returns the weighted portfolio return for every date on which
// all series have a return, in the date order of the first series.
func combine(series []returnSeries, weights []float64) []float64 {
	var out []float64
	for _, d := range series[0].dates {
		var sum float64
		complete := true
		for i, rs := range series {
			r, ok := rs.byDate[d]
			if !ok {
				complete = false
				break
			}
			sum += weights[i] * r
		}
		if complete {
			out = append(out, sum)
		}
	}
	return out
}

// correlation builds the pairwise matrix, each pair over its own shared
// dates. The diagonal is always 1.
func correlation(series []returnSeries) models.CorrelationMatrix {
	n := len(series)
	m := models.CorrelationMatrix{
		Tickers: make([]string, n),
		Cells:   make([][]null.Float, n),
	}
	for i := range series {
		m.Tickers[i] = series[i].ticker
		m.Cells[i] = make([]null.Float, n)
		m.Cells[i][i] = null.FloatFrom(1)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			x, y := aligned(series[i], series[j])
			if r, ok := pearson(x, y); ok {
				m.Cells[i][j] = null.FloatFrom(r)
				m.Cells[j][i] = null.FloatFrom(r)
			}
		}
	}
	return m
}

func aligned(a, b returnSeries) ([]float64, []float64) {
	var x, y []float64
	for _, d := range a.dates {
		if v, ok := b.byDate[d]; ok {
			x = append(x, a.byDate[d])
			y = append(y, v)
		}
	}
	return x, y
}

// averageUpper is the mean of the valid cells above the diagonal, or 0.
func averageUpper(m models.CorrelationMatrix) float64 {
	var sum float64
	var n int
	for i := range m.Cells {
		for j := i + 1; j < len(m.Cells[i]); j++ {
			if c := m.Cells[i][j]; c.Valid {
				sum += c.Float64
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
