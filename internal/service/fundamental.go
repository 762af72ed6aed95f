package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/fundamentals"
	"github.com/guttosm/equifolio/internal/llm"
	"github.com/guttosm/equifolio/internal/logger"
	"github.com/guttosm/equifolio/internal/marketdata"
	"github.com/guttosm/equifolio/internal/prompt"
)

// FundamentalService produces a valuation narrative for one ticker.
type FundamentalService interface {
	Analyze(ctx context.Context, ticker string) (*models.FundamentalReport, error)
}

type fundamentalService struct {
	info       marketdata.InfoProvider
	statements marketdata.StatementProvider
	gen        llm.Generator
}

// NewFundamentalService wires the company info source and the LLM.
// statements may be nil; the prompt then reports the statements as missing.
func NewFundamentalService(info marketdata.InfoProvider, statements marketdata.StatementProvider, gen llm.Generator) FundamentalService {
	return &fundamentalService{info: info, statements: statements, gen: gen}
}

// keyMetricRatios maps report labels to ratio names.
var keyMetricRatios = []struct{ label, ratio string }{
	{"P/E Ratio", "P/E"},
	{"P/B Ratio", "P/B"},
	{"Profit Margin", "Profit Margin"},
	{"Debt to Equity", "Debt to Equity"},
	{"ROE", "ROE"},
}

func (s *fundamentalService) Analyze(ctx context.Context, ticker string) (*models.FundamentalReport, error) {
	t, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	info, err := s.info.FetchCompanyInfo(ctx, t)
	if err != nil {
		logger.L().Warn().Str("ticker", t).Err(err).Msg("company info fetch failed")
		return nil, classify("company information for "+t, err)
	}
	if len(info) == 0 {
		return nil, fmt.Errorf("%w: could not fetch company information for %s", ErrNoData, t)
	}

	ratios := fundamentals.Extract(info)
	statements := s.fetchStatements(ctx, t)

	text, err := prompt.Fundamental(prompt.FundamentalData{
		Ticker:          t,
		CompanyInfo:     describeCompany(info),
		FinancialRatios: strings.Join(ratios.Lines(), "\n"),
		IncomeStatement: statementTable(statements["Income Statement"]),
		BalanceSheet:    statementTable(statements["Balance Sheet"]),
		CashFlow:        statementTable(statements["Cash Flow"]),
	})
	if err != nil {
		return nil, err
	}
	analysis, err := s.gen.Generate(ctx, text)
	if err != nil {
		return nil, classify("fundamental analysis", err)
	}

	metrics := make(map[string]any, len(keyMetricRatios)+2)
	for _, km := range keyMetricRatios {
		if v, ok := ratios.Get(km.ratio); ok {
			metrics[km.label] = v
		} else {
			metrics[km.label] = notAvailable
		}
	}
	if v, ok := info.Float("currentPrice"); ok {
		metrics["Current Price"] = v
	} else {
		metrics["Current Price"] = notAvailable
	}
	metrics["Market Cap"] = marketCap(info)

	return &models.FundamentalReport{
		Ticker:      t,
		CompanyName: orDefault(info.String("shortName"), t),
		Sector:      orDefault(info.String("sector"), notAvailable),
		Industry:    orDefault(info.String("industry"), notAvailable),
		KeyMetrics:  metrics,
		Ratios:      ratios,
		Analysis:    analysis,
	}, nil
}

// fetchStatements indexes statements by name. Failures only degrade the prompt.
func (s *fundamentalService) fetchStatements(ctx context.Context, ticker string) map[string]*models.FinancialStatement {
	out := map[string]*models.FinancialStatement{}
	if s.statements == nil {
		return out
	}
	sts, err := s.statements.FetchStatements(ctx, ticker)
	if err != nil {
		logger.L().Warn().Str("ticker", ticker).Err(err).Msg("financial statements unavailable")
		return out
	}
	for i := range sts {
		out[sts[i].Name] = &sts[i]
	}
	return out
}

func describeCompany(info models.CompanyInfo) string {
	dollars := func(key string) string {
		if v, ok := info.Float(key); ok {
			return "$" + plain(v)
		}
		return notAvailable
	}
	return strings.Join([]string{
		"Name: " + orDefault(info.String("shortName"), notAvailable),
		"Sector: " + orDefault(info.String("sector"), notAvailable),
		"Industry: " + orDefault(info.String("industry"), notAvailable),
		"Market Cap: " + marketCap(info),
		"Current Price: " + dollars("currentPrice"),
		"52-Week High: " + dollars("fiftyTwoWeekHigh"),
		"52-Week Low: " + dollars("fiftyTwoWeekLow"),
		"Business Summary: " + orDefault(info.String("longBusinessSummary"), notAvailable),
	}, "\n")
}

func marketCap(info models.CompanyInfo) string {
	v, _ := info.Float("marketCap")
	return fmt.Sprintf("$%.2fB", v/1e9)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
