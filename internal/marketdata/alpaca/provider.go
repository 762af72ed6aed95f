// Package alpaca serves daily, weekly and monthly bars from the Alpaca
// market data API.
package alpaca

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/guttosm/equifolio/internal/domain/models"
	md "github.com/guttosm/equifolio/internal/marketdata"
)

// barsClient is the subset of *marketdata.Client the provider uses.
type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// Provider implements marketdata.Provider for Alpaca. Alpaca has no company
// fundamentals, so FetchCompanyInfo reports ErrUnsupported.
type Provider struct {
	client barsClient
	now    func() time.Time
}

// Ensure Provider implements the interface
var _ md.Provider = (*Provider)(nil)

// NewProvider returns a provider authenticated with the given key pair.
// Empty keys fall back to the APCA_API_KEY_ID / APCA_API_SECRET_KEY
// environment variables read by the SDK.
func NewProvider(keyID, secret string) *Provider {
	return &Provider{
		client: marketdata.NewClient(marketdata.ClientOpts{APIKey: keyID, APISecret: secret}),
		now:    time.Now,
	}
}

var timeFrames = map[string]marketdata.TimeFrame{
	"1d":  marketdata.OneDay,
	"1wk": marketdata.NewTimeFrame(1, marketdata.Week),
	"1mo": marketdata.NewTimeFrame(1, marketdata.Month),
}

// FetchPriceSeries loads split and dividend adjusted bars for period.
func (p *Provider) FetchPriceSeries(ctx context.Context, ticker, period, interval string) (models.PriceSeries, error) {
	ticker = md.NormalizeTicker(ticker)
	per, err := md.ParsePeriod(period)
	if err != nil {
		return models.PriceSeries{}, err
	}
	iv, err := md.NormalizeInterval(interval)
	if err != nil {
		return models.PriceSeries{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.PriceSeries{}, err
	}

	now := p.now().UTC()
	start := per.Since(now)
	if start.IsZero() {
		// earliest history Alpaca serves
		start = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	bars, err := p.client.GetBars(ticker, marketdata.GetBarsRequest{
		TimeFrame:  timeFrames[iv],
		Adjustment: marketdata.All,
		Start:      start,
		End:        now,
	})
	if err != nil {
		return models.PriceSeries{}, fmt.Errorf("alpaca bars %s: %w", ticker, err)
	}
	if len(bars) == 0 {
		return models.PriceSeries{}, fmt.Errorf("%w: %s: no bars returned", md.ErrNotFound, ticker)
	}

	out := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		d := md.SessionDate(b.Timestamp)
		if n := len(out); n > 0 && out[n-1].Date.Equal(d) {
			continue
		}
		out = append(out, models.Bar{
			Date:   d,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		})
	}
	return models.PriceSeries{Ticker: ticker, Bars: out}, nil
}

// FetchCompanyInfo always fails with marketdata.ErrUnsupported.
func (p *Provider) FetchCompanyInfo(_ context.Context, ticker string) (models.CompanyInfo, error) {
	return nil, fmt.Errorf("%w: alpaca has no company info for %s", md.ErrUnsupported, md.NormalizeTicker(ticker))
}
