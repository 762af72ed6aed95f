// Package marketdata defines the price and company data sources consumed by
// the analysis services. Concrete providers live in sub-packages.
package marketdata

import (
	"context"
	"errors"

	"github.com/guttosm/equifolio/internal/domain/models"
)

var (
	// ErrNotFound means the provider has no data for the ticker.
	ErrNotFound = errors.New("marketdata: not found")
	// ErrUnsupported means the provider does not offer the requested data.
	ErrUnsupported = errors.New("marketdata: unsupported")
)

// PriceProvider returns the price history of a ticker.
type PriceProvider interface {
	FetchPriceSeries(ctx context.Context, ticker, period, interval string) (models.PriceSeries, error)
}

// InfoProvider returns the company info record of a ticker.
type InfoProvider interface {
	FetchCompanyInfo(ctx context.Context, ticker string) (models.CompanyInfo, error)
}

// StatementProvider returns financial statements, most recent period first.
type StatementProvider interface {
	FetchStatements(ctx context.Context, ticker string) ([]models.FinancialStatement, error)
}

// Provider is a source of both prices and company info.
type Provider interface {
	PriceProvider
	InfoProvider
}
