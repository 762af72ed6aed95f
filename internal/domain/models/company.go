package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CompanyInfo is the loosely typed key/value record returned by market data
// providers. Keys follow the Yahoo Finance naming (trailingPE, sector,
// marketCap, ...) regardless of the provider that produced the record.
type CompanyInfo map[string]any

// String returns the value for key as text, or "" when absent.
func (c CompanyInfo) String(key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(v)
}

// Float returns the numeric value for key. Numbers of any width, JSON
// numbers and numeric strings are accepted; NaN and infinities are not.
func (c CompanyInfo) Float(key string) (float64, bool) {
	var f float64
	switch n := c[key].(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		p, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// RatioSet maps a ratio name to its value. Ratios that could not be
// extracted are absent; there are no placeholder values.
//
// Names keeps the extraction order so reports render ratios consistently.
type RatioSet struct {
	names  []string
	values map[string]float64
}

// NewRatioSet returns an empty set.
func NewRatioSet() RatioSet {
	return RatioSet{values: map[string]float64{}}
}

// Set stores v under name, keeping first-insertion order.
func (r *RatioSet) Set(name string, v float64) {
	if r.values == nil {
		r.values = map[string]float64{}
	}
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// Get returns the ratio and whether it is present.
func (r RatioSet) Get(name string) (float64, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Len returns the number of ratios present.
func (r RatioSet) Len() int { return len(r.names) }

// Names returns the ratio names in extraction order.
func (r RatioSet) Names() []string {
	return append([]string(nil), r.names...)
}

// Lines renders the set as "name: value" lines in extraction order.
func (r RatioSet) Lines() []string {
	out := make([]string, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, name+": "+strconv.FormatFloat(r.values[name], 'f', -1, 64))
	}
	return out
}

// MarshalJSON encodes the set as an object, preserving extraction order.
func (r RatioSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FinancialStatement is one financial statement (income, balance sheet or
// cash flow) with the most recent period first.
type FinancialStatement struct {
	Name    string          `json:"name" example:"Income Statement"`
	Periods []string        `json:"periods" example:"2024-09-28,2023-09-30"`
	Rows    []StatementLine `json:"rows"`
}

// StatementLine is a labelled row of a statement. Values align with the
// statement's Periods; nil entries mean the provider had no figure.
type StatementLine struct {
	Label  string     `json:"label" example:"totalRevenue"`
	Values []*float64 `json:"values"`
}
