// Package prompt renders the analysis prompts sent to the LLM.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/guttosm/equifolio/internal/domain/models"
)

//go:embed templates/*.tmpl
var files embed.FS

var templates = template.Must(
	template.New("prompts").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(files, "templates/*.tmpl"),
)

// TechnicalData fills the technical analysis prompt.
type TechnicalData struct {
	Ticker        string
	Period        string
	PriceData     string
	IndicatorData string
}

// FundamentalData fills the fundamental analysis prompt.
type FundamentalData struct {
	Ticker          string
	CompanyInfo     string
	FinancialRatios string
	IncomeStatement string
	BalanceSheet    string
	CashFlow        string
}

// ArticleData fills the per-article sentiment prompt.
type ArticleData struct {
	Title       string
	Description string
	Content     string
}

// SentimentSummaryData fills the sentiment summary prompt.
type SentimentSummaryData struct {
	Ticker   string
	Analyses []models.ArticleSentiment
}

// RiskData fills the portfolio risk prompt.
type RiskData struct {
	Tickers          []string
	PortfolioSummary string
	RiskMetrics      string
	CorrelationData  string
	SectorExposure   string
}

// Technical renders the technical analysis prompt.
func Technical(d TechnicalData) (string, error) { return render("technical.tmpl", d) }

// Fundamental renders the fundamental analysis prompt.
func Fundamental(d FundamentalData) (string, error) { return render("fundamental.tmpl", d) }

// Article renders the sentiment prompt for one news article.
func Article(d ArticleData) (string, error) { return render("article.tmpl", d) }

// SentimentSummary renders the prompt that aggregates article sentiments.
func SentimentSummary(d SentimentSummaryData) (string, error) {
	return render("sentiment_summary.tmpl", d)
}

// Risk renders the portfolio risk prompt.
func Risk(d RiskData) (string, error) { return render("risk.tmpl", d) }

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
