// Package fundamentals extracts valuation and profitability ratios from a
// company info record.
package fundamentals

import "github.com/guttosm/equifolio/internal/domain/models"

// Field maps a ratio name to the company info key it is read from.
type Field struct {
	Name   string
	Source string
}

// Table lists every extracted ratio in report order.
var Table = []Field{
	{Name: "P/E", Source: "trailingPE"},
	{Name: "Forward P/E", Source: "forwardPE"},
	{Name: "P/S", Source: "priceToSalesTrailing12Months"},
	{Name: "P/B", Source: "priceToBook"},
	{Name: "Revenue Growth (YoY)", Source: "revenueGrowth"},
	{Name: "Earnings Growth (YoY)", Source: "earningsGrowth"},
	{Name: "Profit Margin", Source: "profitMargins"},
	{Name: "Operating Margin", Source: "operatingMargins"},
	{Name: "ROE", Source: "returnOnEquity"},
	{Name: "ROA", Source: "returnOnAssets"},
	{Name: "Dividend Yield", Source: "dividendYield"},
	{Name: "Dividend Rate", Source: "dividendRate"},
	{Name: "Payout Ratio", Source: "payoutRatio"},
	{Name: "Debt to Equity", Source: "debtToEquity"},
	{Name: "Current Ratio", Source: "currentRatio"},
}

// Extract applies Table to info. Missing, null and non-numeric fields are
// left out of the result.
func Extract(info models.CompanyInfo) models.RatioSet {
	out := models.NewRatioSet()
	for _, f := range Table {
		if v, ok := info.Float(f.Source); ok {
			out.Set(f.Name, v)
		}
	}
	return out
}
