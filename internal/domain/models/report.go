package models

// TechnicalReport is the result of a technical analysis of one ticker.
type TechnicalReport struct {
	Ticker           string            `json:"ticker" example:"AAPL"`
	Period           string            `json:"period" example:"1y"`
	KeyMetrics       map[string]string `json:"key_metrics"`
	PriceSummary     string            `json:"price_summary"`
	IndicatorSummary string            `json:"indicator_summary"`
	Analysis         string            `json:"analysis"`
}

// FundamentalReport is the result of a fundamental analysis of one ticker.
// KeyMetrics values are numbers, or the string "N/A" when unknown.
type FundamentalReport struct {
	Ticker      string         `json:"ticker" example:"AAPL"`
	CompanyName string         `json:"company_name" example:"Apple Inc."`
	Sector      string         `json:"sector" example:"Technology"`
	Industry    string         `json:"industry" example:"Consumer Electronics"`
	KeyMetrics  map[string]any `json:"key_metrics" swaggertype:"object"`
	Ratios      RatioSet       `json:"ratios" swaggertype:"object"`
	Analysis    string         `json:"analysis"`
}

// SentimentReport aggregates the sentiment of recent news about a ticker.
type SentimentReport struct {
	Ticker           string             `json:"ticker" example:"AAPL"`
	AverageSentiment float64            `json:"average_sentiment" example:"0.21"`
	ArticlesAnalyzed int                `json:"articles_analyzed" example:"10"`
	Summary          string             `json:"summary"`
	DetailedAnalyses []ArticleSentiment `json:"detailed_analyses"`
}

// RiskMetricsText is PortfolioMetrics formatted for display.
type RiskMetricsText struct {
	AnnualizedReturn     string `json:"annualized_return" example:"18.42%"`
	AnnualizedVolatility string `json:"annualized_volatility" example:"22.10%"`
	SharpeRatio          string `json:"sharpe_ratio" example:"0.83"`
	MaxDrawdown          string `json:"max_drawdown" example:"-15.33%"`
	VaR95                string `json:"var_95" example:"-2.05%"`
	AverageCorrelation   string `json:"average_correlation" example:"0.61"`
}

// RiskReport is the result of a portfolio risk analysis.
type RiskReport struct {
	Tickers         []string           `json:"tickers" example:"AAPL,MSFT"`
	Period          string             `json:"period" example:"1y"`
	Excluded        []string           `json:"excluded,omitempty"`
	Metrics         RiskMetricsText    `json:"metrics"`
	SectorBreakdown map[string]float64 `json:"sector_breakdown"`
	Analysis        string             `json:"analysis"`
}
