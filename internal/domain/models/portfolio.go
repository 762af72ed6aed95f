package models

import "github.com/guregu/null/v6"

// PortfolioMetrics holds the risk statistics of a weighted portfolio.
//
// Percent fields are already multiplied by 100. Sharpe is invalid when the
// annualized volatility is zero.
type PortfolioMetrics struct {
	Tickers              []string          `json:"tickers" example:"AAPL,MSFT"`
	Weights              []float64         `json:"weights"`
	Observations         int               `json:"observations" example:"250"`
	AnnualizedReturn     float64           `json:"annualized_return" example:"18.42"`
	AnnualizedVolatility float64           `json:"annualized_volatility" example:"22.10"`
	Sharpe               null.Float        `json:"sharpe_ratio" swaggertype:"number"`
	MaxDrawdown          float64           `json:"max_drawdown" example:"-15.33"`
	VaR95                float64           `json:"var_95" example:"-2.05"`
	Correlation          CorrelationMatrix `json:"correlation_matrix"`
	AverageCorrelation   float64           `json:"average_correlation" example:"0.61"`
}

// CorrelationMatrix is a symmetric ticker-by-ticker Pearson correlation
// matrix. Cells[i][j] relates Tickers[i] and Tickers[j]; a pair without
// enough overlapping variance is invalid.
type CorrelationMatrix struct {
	Tickers []string       `json:"tickers"`
	Cells   [][]null.Float `json:"cells" swaggertype:"array,number"`
}

// At returns the correlation between tickers a and b.
func (m CorrelationMatrix) At(a, b string) (null.Float, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return null.Float{}, false
	}
	return m.Cells[i][j], true
}

func (m CorrelationMatrix) index(t string) int {
	for i, v := range m.Tickers {
		if v == t {
			return i
		}
	}
	return -1
}
