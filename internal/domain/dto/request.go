package dto

// TechnicalRequest is the body of POST /api/v1/technical.
type TechnicalRequest struct {
	Ticker string `json:"ticker" binding:"required" example:"AAPL"`
	Period string `json:"period" example:"1y"`
}

// FundamentalRequest is the body of POST /api/v1/fundamental.
type FundamentalRequest struct {
	Ticker string `json:"ticker" binding:"required" example:"AAPL"`
}

// SentimentRequest is the body of POST /api/v1/sentiment.
// DaysBack defaults to 7 when omitted.
type SentimentRequest struct {
	Ticker   string `json:"ticker" binding:"required" example:"AAPL"`
	DaysBack int    `json:"days_back" example:"7"`
}

// RiskRequest is the body of POST /api/v1/risk and
// POST /api/v1/risk/metrics. Weights are optional and positional.
type RiskRequest struct {
	Tickers []string  `json:"tickers" binding:"required" example:"AAPL,MSFT,NVDA"`
	Period  string    `json:"period" example:"1y"`
	Weights []float64 `json:"weights,omitempty"`
}
