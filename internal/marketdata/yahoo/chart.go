package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/marketdata"
)

// chartResponse is the payload of /v8/finance/chart. Quote arrays contain
// nulls for sessions without trades.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) err(ticker string) error {
	if strings.EqualFold(e.Code, "Not Found") {
		return fmt.Errorf("%w: %s: %s", marketdata.ErrNotFound, ticker, e.Description)
	}
	return fmt.Errorf("yahoo api error: %s: %s", e.Code, e.Description)
}

// FetchPriceSeries loads bars for ticker over period at interval.
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

	q := url.Values{}
	q.Set("range", p.Name)
	q.Set("interval", iv)
	q.Set("includePrePost", "false")
	body, err := c.get(ctx, fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, escape(ticker), q.Encode()))
	if err != nil {
		return models.PriceSeries{}, err
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return models.PriceSeries{}, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return models.PriceSeries{}, chart.Chart.Error.err(ticker)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return models.PriceSeries{}, fmt.Errorf("%w: %s: no bars returned", marketdata.ErrNotFound, ticker)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	zone := time.FixedZone("exchange", result.Meta.GMTOffset)

	bars := make([]models.Bar, 0, len(result.Timestamp))
	seen := make(map[time.Time]struct{}, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		cl := at(quote.Close, i)
		if cl == nil {
			continue // no trades that session
		}
		d := marketdata.SessionDate(time.Unix(ts, 0).In(zone))
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		bars = append(bars, models.Bar{
			Date:   d,
			Open:   value(at(quote.Open, i), *cl),
			High:   value(at(quote.High, i), *cl),
			Low:    value(at(quote.Low, i), *cl),
			Close:  *cl,
			Volume: value(at(quote.Volume, i), 0),
		})
	}
	if len(bars) == 0 {
		return models.PriceSeries{}, fmt.Errorf("%w: %s: no bars returned", marketdata.ErrNotFound, ticker)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return models.PriceSeries{Ticker: ticker, Bars: bars}, nil
}

func at(xs []*float64, i int) *float64 {
	if i >= len(xs) {
		return nil
	}
	return xs[i]
}

func value(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
