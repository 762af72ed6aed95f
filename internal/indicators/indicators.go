// Package indicators derives technical indicators from a price series.
//
// Every indicator is computed by a streaming accumulator that only sees bars
// up to the current one, so row i never depends on later rows.
package indicators

import (
	"github.com/guregu/null/v6"

	"github.com/guttosm/equifolio/internal/domain/models"
)

// Window sizes and spans used by Compute.
const (
	ShortSMA        = 20
	MediumSMA       = 50
	LongSMA         = 200
	FastEMA         = 12
	SlowEMA         = 26
	SignalEMA       = 9
	RSIPeriod       = 14
	BollingerPeriod = 20
	BollingerK      = 2.0
)

// Compute returns one IndicatorRow per bar of series. Columns whose window is
// longer than the available history are left invalid.
func Compute(series models.PriceSeries) models.IndicatorSeries {
	out := models.IndicatorSeries{
		Ticker: series.Ticker,
		Rows:   make([]models.IndicatorRow, len(series.Bars)),
	}

	sma20 := newRollingWindow(ShortSMA)
	sma50 := newRollingWindow(MediumSMA)
	sma200 := newRollingWindow(LongSMA)
	bands := newRollingWindow(BollingerPeriod)
	fast := newEMA(FastEMA)
	slow := newEMA(SlowEMA)
	signal := newEMA(SignalEMA)
	osc := newRSI(RSIPeriod)

	for i, bar := range series.Bars {
		c := bar.Close
		row := models.IndicatorRow{Bar: bar}

		row.SMA20 = pushMean(sma20, c)
		row.SMA50 = pushMean(sma50, c)
		row.SMA200 = pushMean(sma200, c)

		e12 := fast.push(c)
		e26 := slow.push(c)
		macd := e12 - e26
		row.EMA12 = null.FloatFrom(e12)
		row.EMA26 = null.FloatFrom(e26)
		row.MACD = null.FloatFrom(macd)
		row.MACDSignal = null.FloatFrom(signal.push(macd))

		if v, ok := osc.push(c); ok {
			row.RSI = null.FloatFrom(v)
		}

		bands.push(c)
		if bands.full() {
			mid := bands.mean()
			half := BollingerK * bands.stddev()
			row.BBMiddle = null.FloatFrom(mid)
			row.BBUpper = null.FloatFrom(mid + half)
			row.BBLower = null.FloatFrom(mid - half)
		}

		out.Rows[i] = row
	}
	return out
}

func pushMean(w *rollingWindow, v float64) null.Float {
	w.push(v)
	if !w.full() {
		return null.Float{}
	}
	return null.FloatFrom(w.mean())
}

// Latest computes the indicators of series and returns the most recent row.
// It reports false for an empty series.
func Latest(series models.PriceSeries) (models.IndicatorRow, bool) {
	return Compute(series).Last()
}
