package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/marketdata"
)

// infoModules are flattened into CompanyInfo in this order; the first module
// providing a key wins.
var infoModules = []string{
	"price",
	"summaryDetail",
	"financialData",
	"defaultKeyStatistics",
	"assetProfile",
}

// statementModules maps a quoteSummary module to the list inside it.
var statementModules = []struct {
	module string
	list   string
	name   string
}{
	{module: "incomeStatementHistory", list: "incomeStatementHistory", name: "Income Statement"},
	{module: "balanceSheetHistory", list: "balanceSheetStatements", name: "Balance Sheet"},
	{module: "cashflowStatementHistory", list: "cashflowStatements", name: "Cash Flow"},
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *apiError                    `json:"error"`
	} `json:"quoteSummary"`
}

func (c *Client) quoteSummary(ctx context.Context, ticker string, modules []string) (map[string]json.RawMessage, error) {
	body, err := c.getWithCrumb(ctx, func(crumb string) string {
		q := url.Values{}
		q.Set("modules", strings.Join(modules, ","))
		q.Set("crumb", crumb)
		return fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", c.baseURL, escape(ticker), q.Encode())
	})
	if err != nil {
		return nil, err
	}

	var resp summaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, resp.QuoteSummary.Error.err(ticker)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s: empty quote summary", marketdata.ErrNotFound, ticker)
	}
	return resp.QuoteSummary.Result[0], nil
}

// FetchCompanyInfo returns the flattened quoteSummary modules. Formatted
// values ({"raw": 1.2, "fmt": "1.20"}) are reduced to their raw number.
func (c *Client) FetchCompanyInfo(ctx context.Context, ticker string) (models.CompanyInfo, error) {
	ticker = marketdata.NormalizeTicker(ticker)
	result, err := c.quoteSummary(ctx, ticker, infoModules)
	if err != nil {
		return nil, err
	}

	info := models.CompanyInfo{"symbol": ticker}
	for _, name := range infoModules {
		raw, ok := result[name]
		if !ok {
			continue
		}
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		for k, v := range fields {
			if _, exists := info[k]; exists {
				continue
			}
			if flat, ok := flatten(v); ok {
				info[k] = flat
			}
		}
	}
	// quoteSummary only reports the live price as regularMarketPrice
	if _, ok := info["currentPrice"]; !ok {
		if v, ok := info["regularMarketPrice"]; ok {
			info["currentPrice"] = v
		}
	}
	return info, nil
}

func flatten(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		raw, ok := t["raw"]
		if !ok || raw == nil {
			return nil, false
		}
		return raw, true
	case []any:
		return nil, false
	default:
		return t, true
	}
}

// FetchStatements returns the annual income statement, balance sheet and
// cash flow history.
func (c *Client) FetchStatements(ctx context.Context, ticker string) ([]models.FinancialStatement, error) {
	ticker = marketdata.NormalizeTicker(ticker)
	modules := make([]string, len(statementModules))
	for i, m := range statementModules {
		modules[i] = m.module
	}
	result, err := c.quoteSummary(ctx, ticker, modules)
	if err != nil {
		return nil, err
	}

	var out []models.FinancialStatement
	for _, m := range statementModules {
		raw, ok := result[m.module]
		if !ok {
			continue
		}
		var wrapper map[string][]map[string]any
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			continue
		}
		if st, ok := buildStatement(m.name, wrapper[m.list]); ok {
			out = append(out, st)
		}
	}
	return out, nil
}

func buildStatement(name string, entries []map[string]any) (models.FinancialStatement, bool) {
	if len(entries) == 0 {
		return models.FinancialStatement{}, false
	}
	st := models.FinancialStatement{Name: name}

	labels := map[string]struct{}{}
	for _, e := range entries {
		st.Periods = append(st.Periods, endDate(e))
		for k := range e {
			if k == "maxAge" || k == "endDate" {
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

	for _, label := range sorted {
		line := models.StatementLine{Label: label, Values: make([]*float64, len(entries))}
		for i, e := range entries {
			if v, ok := flatten(e[label]); ok {
				if f, ok := v.(float64); ok {
					f := f
					line.Values[i] = &f
				}
			}
		}
		st.Rows = append(st.Rows, line)
	}
	return st, true
}

func endDate(e map[string]any) string {
	if m, ok := e["endDate"].(map[string]any); ok {
		if s, ok := m["fmt"].(string); ok {
			return s
		}
	}
	return "unknown"
}
