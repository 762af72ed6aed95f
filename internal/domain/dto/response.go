package dto

import "github.com/guttosm/equifolio/internal/domain/models"

// StatusSuccess is the status of every successful analysis response.
const StatusSuccess = "success"

// RootResponse describes the service at GET /.
type RootResponse struct {
	Message   string   `json:"message" example:"EquiFolio analysis API"`
	Version   string   `json:"version" example:"1.0.0"`
	Endpoints []string `json:"endpoints"`
}

// TechnicalResponse wraps a technical report.
type TechnicalResponse struct {
	Status string `json:"status" example:"success"`
	models.TechnicalReport
}

// FundamentalResponse wraps a fundamental report.
type FundamentalResponse struct {
	Status string `json:"status" example:"success"`
	models.FundamentalReport
}

// SentimentResponse wraps a sentiment report.
type SentimentResponse struct {
	Status string `json:"status" example:"success"`
	models.SentimentReport
}

// RiskResponse wraps a risk report.
type RiskResponse struct {
	Status string `json:"status" example:"success"`
	models.RiskReport
}

// MetricsResponse carries raw portfolio metrics without any narrative.
type MetricsResponse struct {
	Status string `json:"status" example:"success"`
	models.PortfolioMetrics
	Formatted models.RiskMetricsText `json:"formatted"`
}

// IndicatorsResponse carries the indicator rows of one ticker.
type IndicatorsResponse struct {
	Status string `json:"status" example:"success"`
	models.IndicatorSeries
}
