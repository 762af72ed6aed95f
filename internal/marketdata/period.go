package marketdata

import (
	"fmt"
	"strings"
	"time"
)

// Period is a lookback window such as "6mo" or "1y".
type Period struct {
	Name   string
	years  int
	months int
	days   int
	ytd    bool
	max    bool
}

var periods = map[string]Period{
	"1d":  {days: 1},
	"5d":  {days: 5},
	"1mo": {months: 1},
	"3mo": {months: 3},
	"6mo": {months: 6},
	"1y":  {years: 1},
	"2y":  {years: 2},
	"5y":  {years: 5},
	"10y": {years: 10},
	"ytd": {ytd: true},
	"max": {max: true},
}

// DefaultPeriod and DefaultInterval are used when a request leaves them empty.
const (
	DefaultPeriod   = "1y"
	DefaultInterval = "1d"
)

// ParsePeriod validates a period name. Empty means DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		s = DefaultPeriod
	}
	p, ok := periods[s]
	if !ok {
		return Period{}, fmt.Errorf("invalid period %q", s)
	}
	p.Name = s
	return p, nil
}

// Since returns the first instant covered by the period when it ends at now.
// It returns the zero time for "max".
func (p Period) Since(now time.Time) time.Time {
	switch {
	case p.max:
		return time.Time{}
	case p.ytd:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	}
	return now.AddDate(-p.years, -p.months, -p.days)
}

// NormalizeInterval validates a bar interval. Empty means DefaultInterval.
func NormalizeInterval(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return DefaultInterval, nil
	case "1d", "1wk", "1mo":
		return s, nil
	}
	return "", fmt.Errorf("invalid interval %q", s)
}

// NormalizeTicker upper-cases and trims a ticker symbol.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// SessionDate truncates t to midnight UTC of its wall-clock date.
func SessionDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
