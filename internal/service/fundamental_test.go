package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/marketdata"
)

func appleInfo() models.CompanyInfo {
	return models.CompanyInfo{
		"shortName":           "Apple Inc.",
		"sector":              "Technology",
		"industry":            "Consumer Electronics",
		"marketCap":           3.4e12,
		"currentPrice":        226.5,
		"fiftyTwoWeekHigh":    237.23,
		"trailingPE":          34.1,
		"priceToBook":         51.2,
		"profitMargins":       0.26,
		"returnOnEquity":      1.6,
		"longBusinessSummary": "Designs phones.",
	}
}

func ptr(v float64) *float64 { return &v }

func TestFundamentalService_Analyze(t *testing.T) {
	info := &fakeInfo{infos: map[string]models.CompanyInfo{"AAPL": appleInfo()}}
	statements := &fakeStatements{statements: []models.FinancialStatement{{
		Name:    "Income Statement",
		Periods: []string{"2024-09-28", "2023-09-30", "2022-09-24"},
		Rows:    []models.StatementLine{{Label: "totalRevenue", Values: []*float64{ptr(391e9), ptr(383.3e9), nil}}},
	}}}
	gen := &recorder{}

	rep, err := NewFundamentalService(info, statements, gen).Analyze(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", rep.Ticker)
	assert.Equal(t, "Apple Inc.", rep.CompanyName)
	assert.Equal(t, "Technology", rep.Sector)
	assert.Equal(t, 34.1, rep.KeyMetrics["P/E Ratio"])
	assert.Equal(t, notAvailable, rep.KeyMetrics["Debt to Equity"])
	assert.Equal(t, 226.5, rep.KeyMetrics["Current Price"])
	assert.Equal(t, "$3400.00B", rep.KeyMetrics["Market Cap"])
	assert.Equal(t, "narrative", rep.Analysis)

	p := gen.last()
	assert.Contains(t, p, "Name: Apple Inc.")
	assert.Contains(t, p, "52-Week High: $237.23")
	assert.Contains(t, p, "52-Week Low: N/A")
	assert.Contains(t, p, "P/E: 34.1")
	assert.Contains(t, p, "$391.00B")
	assert.NotContains(t, p, "2022-09-24", "only two periods are shown")
	assert.Equal(t, 2, strings.Count(p, "No data available"), "balance sheet and cash flow are missing")
}

func TestFundamentalService_DegradesWithoutStatements(t *testing.T) {
	info := &fakeInfo{infos: map[string]models.CompanyInfo{"AAPL": appleInfo()}}
	cases := []struct {
		name       string
		statements marketdata.StatementProvider
	}{
		{name: "no provider"},
		{name: "provider fails", statements: &fakeStatements{err: marketdata.ErrUnsupported}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &recorder{}
			_, err := NewFundamentalService(info, tc.statements, gen).Analyze(context.Background(), "AAPL")
			require.NoError(t, err)
			assert.Equal(t, 3, strings.Count(gen.last(), "No data available"))
		})
	}
}

func TestFundamentalService_Errors(t *testing.T) {
	cases := []struct {
		name    string
		ticker  string
		info    *fakeInfo
		gen     *recorder
		wantErr error
	}{
		{name: "empty ticker", ticker: "", info: &fakeInfo{}, wantErr: ErrInvalidInput},
		{name: "not found", ticker: "NOPE", info: &fakeInfo{err: marketdata.ErrNotFound}, wantErr: ErrNoData},
		{name: "empty info", ticker: "NOPE", info: &fakeInfo{}, wantErr: ErrNoData},
		{name: "provider failure", ticker: "AAPL", info: &fakeInfo{err: errors.New("502")}, wantErr: ErrUpstream},
		{
			name:    "llm failure",
			ticker:  "AAPL",
			info:    &fakeInfo{infos: map[string]models.CompanyInfo{"AAPL": appleInfo()}},
			gen:     &recorder{reply: func(string) (string, error) { return "", errors.New("overloaded") }},
			wantErr: ErrUpstream,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := tc.gen
			if gen == nil {
				gen = &recorder{}
			}
			_, err := NewFundamentalService(tc.info, nil, gen).Analyze(context.Background(), tc.ticker)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}
