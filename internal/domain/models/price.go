package models

import "time"

// Bar is one OHLCV row of a price history.
type Bar struct {
	Date   time.Time `json:"date" example:"2024-09-02T00:00:00Z"`
	Open   float64   `json:"open" example:"227.10"`
	High   float64   `json:"high" example:"229.00"`
	Low    float64   `json:"low" example:"225.70"`
	Close  float64   `json:"close" example:"228.30"`
	Volume float64   `json:"volume" example:"52990770"`
}

// PriceSeries is the price history of a single ticker.
//
// Bars are sorted by date ascending with no duplicate dates. Providers build
// a series once and consumers treat it as read-only.
type PriceSeries struct {
	Ticker string `json:"ticker" example:"AAPL"`
	Bars   []Bar  `json:"bars"`
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.Bars) }

// First returns the oldest bar. It panics on an empty series.
func (s PriceSeries) First() Bar { return s.Bars[0] }

// Last returns the most recent bar. It panics on an empty series.
func (s PriceSeries) Last() Bar { return s.Bars[len(s.Bars)-1] }
