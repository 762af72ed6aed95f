package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/marketdata"
)

// EODData is one end-of-day bar.
type EODData struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
	Volume        float64 `json:"volume"`
}

var eodPeriods = map[string]string{"1d": "d", "1wk": "w", "1mo": "m"}

// FetchPriceSeries loads end-of-day bars for ticker.
func (c *Client) FetchPriceSeries(ctx context.Context, ticker, period, interval string) (models.PriceSeries, error) {
	ticker = marketdata.NormalizeTicker(ticker)
	p, err := marketdata.ParsePeriod(period)
	if err != nil {
		return models.PriceSeries{}, err
	}
	iv, err := marketdata.NormalizeInterval(interval)
	if err != nil {
		return models.PriceSeries{}, err
	}

	now := c.now().UTC()
	params := url.Values{}
	if from := p.Since(now); !from.IsZero() {
		params.Set("from", from.Format("2006-01-02"))
	}
	params.Set("to", now.Format("2006-01-02"))
	params.Set("period", eodPeriods[iv])
	params.Set("order", "a")

	var rows []EODData
	if err := c.get(ctx, "/eod/"+c.Symbol(ticker), params, &rows); err != nil {
		return models.PriceSeries{}, err
	}

	bars := make([]models.Bar, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil || r.Close <= 0 {
			continue
		}
		if _, dup := seen[r.Date]; dup {
			continue
		}
		seen[r.Date] = struct{}{}
		bars = append(bars, models.Bar{Date: d, Open: r.Open, High: r.High, Low: r.Low, Close: r.Close, Volume: r.Volume})
	}
	if len(bars) == 0 {
		return models.PriceSeries{}, fmt.Errorf("%w: %s: no bars returned", marketdata.ErrNotFound, ticker)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return models.PriceSeries{Ticker: ticker, Bars: bars}, nil
}
