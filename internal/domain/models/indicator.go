package models

import "github.com/guregu/null/v6"

// IndicatorRow is a Bar enriched with the derived technical indicators.
//
// A column without enough history behind it is left invalid (JSON null),
// never zero.
type IndicatorRow struct {
	Bar
	SMA20      null.Float `json:"sma_20" swaggertype:"number"`
	SMA50      null.Float `json:"sma_50" swaggertype:"number"`
	SMA200     null.Float `json:"sma_200" swaggertype:"number"`
	EMA12      null.Float `json:"ema_12" swaggertype:"number"`
	EMA26      null.Float `json:"ema_26" swaggertype:"number"`
	MACD       null.Float `json:"macd" swaggertype:"number"`
	MACDSignal null.Float `json:"macd_signal" swaggertype:"number"`
	RSI        null.Float `json:"rsi" swaggertype:"number"`
	BBMiddle   null.Float `json:"bb_middle" swaggertype:"number"`
	BBUpper    null.Float `json:"bb_upper" swaggertype:"number"`
	BBLower    null.Float `json:"bb_lower" swaggertype:"number"`
}

// IndicatorSeries has exactly one row per bar of the PriceSeries it was
// computed from, in the same order.
type IndicatorSeries struct {
	Ticker string         `json:"ticker" example:"AAPL"`
	Rows   []IndicatorRow `json:"rows"`
}

// Len returns the number of rows.
func (s IndicatorSeries) Len() int { return len(s.Rows) }

// Last returns the most recent row and false when the series is empty.
func (s IndicatorSeries) Last() (IndicatorRow, bool) {
	if len(s.Rows) == 0 {
		return IndicatorRow{}, false
	}
	return s.Rows[len(s.Rows)-1], true
}
