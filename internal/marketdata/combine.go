package marketdata

import (
	"context"

	"github.com/guttosm/equifolio/internal/domain/models"
)

// Combined serves prices from one source and company data from another.
type Combined struct {
	PriceProvider
	InfoProvider
	statements StatementProvider
}

// Combine pairs a price source with an info source. statements may be nil,
// in which case FetchStatements reports ErrUnsupported.
func Combine(prices PriceProvider, info InfoProvider, statements StatementProvider) *Combined {
	return &Combined{PriceProvider: prices, InfoProvider: info, statements: statements}
}

// FetchStatements delegates to the statements source.
func (c *Combined) FetchStatements(ctx context.Context, ticker string) ([]models.FinancialStatement, error) {
	if c.statements == nil {
		return nil, ErrUnsupported
	}
	return c.statements.FetchStatements(ctx, ticker)
}
