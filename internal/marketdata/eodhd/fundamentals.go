package eodhd

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/marketdata"
)

// infoField maps an EODHD fundamentals field onto the CompanyInfo key used
// across providers. Earlier entries win when two fields map to one key.
type infoField struct {
	section string
	field   string
	key     string
	text    bool
}

var infoFields = []infoField{
	{section: "General", field: "Name", key: "shortName", text: true},
	{section: "General", field: "Sector", key: "sector", text: true},
	{section: "General", field: "Industry", key: "industry", text: true},
	{section: "General", field: "Description", key: "longBusinessSummary", text: true},
	{section: "General", field: "CurrencyCode", key: "currency", text: true},
	{section: "Highlights", field: "MarketCapitalization", key: "marketCap"},
	{section: "Valuation", field: "TrailingPE", key: "trailingPE"},
	{section: "Highlights", field: "PERatio", key: "trailingPE"},
	{section: "Valuation", field: "ForwardPE", key: "forwardPE"},
	{section: "Valuation", field: "PriceSalesTTM", key: "priceToSalesTrailing12Months"},
	{section: "Valuation", field: "PriceBookMRQ", key: "priceToBook"},
	{section: "Highlights", field: "QuarterlyRevenueGrowthYOY", key: "revenueGrowth"},
	{section: "Highlights", field: "QuarterlyEarningsGrowthYOY", key: "earningsGrowth"},
	{section: "Highlights", field: "ProfitMargin", key: "profitMargins"},
	{section: "Highlights", field: "OperatingMarginTTM", key: "operatingMargins"},
	{section: "Highlights", field: "ReturnOnEquityTTM", key: "returnOnEquity"},
	{section: "Highlights", field: "ReturnOnAssetsTTM", key: "returnOnAssets"},
	{section: "Highlights", field: "DividendYield", key: "dividendYield"},
	{section: "Highlights", field: "DividendShare", key: "dividendRate"},
	{section: "SplitsDividends", field: "PayoutRatio", key: "payoutRatio"},
	{section: "Technicals", field: "52WeekHigh", key: "fiftyTwoWeekHigh"},
	{section: "Technicals", field: "52WeekLow", key: "fiftyTwoWeekLow"},
}

type fundamentalsDoc map[string]map[string]any

func (c *Client) fundamentals(ctx context.Context, ticker string, filter string) (map[string]json.RawMessage, error) {
	var out map[string]json.RawMessage
	params := url.Values{}
	if filter != "" {
		params.Set("filter", filter)
	}
	if err := c.get(ctx, "/fundamentals/"+c.Symbol(ticker), params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchCompanyInfo maps the fundamentals document onto CompanyInfo keys.
// Fields that are null or "NA" upstream are left out.
func (c *Client) FetchCompanyInfo(ctx context.Context, ticker string) (models.CompanyInfo, error) {
	ticker = marketdata.NormalizeTicker(ticker)
	raw, err := c.fundamentals(ctx, ticker, "")
	if err != nil {
		return nil, err
	}

	doc := fundamentalsDoc{}
	for _, f := range infoFields {
		if _, ok := doc[f.section]; ok {
			continue
		}
		var section map[string]any
		if err := json.Unmarshal(raw[f.section], &section); err == nil {
			doc[f.section] = section
		}
	}

	info := models.CompanyInfo{"symbol": ticker}
	for _, f := range infoFields {
		if _, exists := info[f.key]; exists {
			continue
		}
		v, ok := doc[f.section][f.field]
		if !ok {
			continue
		}
		if f.text {
			if s, ok := v.(string); ok && s != "" && s != "NA" {
				info[f.key] = s
			}
			continue
		}
		if n, ok := toNumber(v); ok {
			info[f.key] = n
		}
	}
	if len(info) == 1 {
		return nil, marketdata.ErrNotFound
	}
	return info, nil
}

// statementSections maps the Financials sub-documents to display names.
var statementSections = []struct {
	field string
	name  string
}{
	{field: "Income_Statement", name: "Income Statement"},
	{field: "Balance_Sheet", name: "Balance Sheet"},
	{field: "Cash_Flow", name: "Cash Flow"},
}

// maxStatementPeriods bounds how many fiscal years are returned.
const maxStatementPeriods = 4

// FetchStatements returns the yearly statements, most recent first.
func (c *Client) FetchStatements(ctx context.Context, ticker string) ([]models.FinancialStatement, error) {
	raw, err := c.fundamentals(ctx, ticker, "Financials")
	if err != nil {
		return nil, err
	}
	// with a filter the document is the Financials object itself
	var out []models.FinancialStatement
	for _, s := range statementSections {
		var section struct {
			Yearly map[string]map[string]any `json:"yearly"`
		}
		if err := json.Unmarshal(raw[s.field], &section); err != nil || len(section.Yearly) == 0 {
			continue
		}
		out = append(out, buildStatement(s.name, section.Yearly))
	}
	return out, nil
}

func buildStatement(name string, yearly map[string]map[string]any) models.FinancialStatement {
	periods := make([]string, 0, len(yearly))
	for p := range yearly {
		periods = append(periods, p)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))
	if len(periods) > maxStatementPeriods {
		periods = periods[:maxStatementPeriods]
	}

	labels := map[string]struct{}{}
	for _, p := range periods {
		for k := range yearly[p] {
			if k == "date" || k == "filing_date" || k == "currency_symbol" {
				continue
			}
			labels[k] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(labels))
	for k := range labels {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	st := models.FinancialStatement{Name: name, Periods: periods}
	for _, label := range sorted {
		line := models.StatementLine{Label: label, Values: make([]*float64, len(periods))}
		for i, p := range periods {
			if n, ok := toNumber(yearly[p][label]); ok {
				line.Values[i] = &n
			}
		}
		st.Rows = append(st.Rows, line)
	}
	return st
}

// toNumber accepts JSON numbers and numeric strings, which EODHD uses for
// most financial figures.
func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		t = strings.TrimSpace(t)
		if t == "" || strings.EqualFold(t, "NA") {
			return 0, false
		}
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	return 0, false
}
