package service

import (
	"regexp"

	"github.com/guttosm/equifolio/internal/marketdata"
)

// MaxPortfolioSize bounds the number of tickers in one risk request.
const MaxPortfolioSize = 20

// Lookback bounds for sentiment requests, in days.
const (
	DefaultDaysBack = 7
	MaxDaysBack     = 30
)

// tickerPattern accepts exchange suffixes (BRK.B, VOD.L), indices (^GSPC) and
// crypto or FX pairs (BTC-USD, EURUSD=X).
var tickerPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-=^]{0,14}$`)

func normalizeTicker(raw string) (string, error) {
	t := marketdata.NormalizeTicker(raw)
	if t == "" {
		return "", invalid("ticker is required")
	}
	if !tickerPattern.MatchString(t) {
		return "", invalid("malformed ticker %q", raw)
	}
	return t, nil
}

func normalizePeriod(raw string) (string, error) {
	p, err := marketdata.ParsePeriod(raw)
	if err != nil {
		return "", invalid("%v", err)
	}
	return p.Name, nil
}

func normalizeTickers(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, invalid("at least one ticker is required")
	}
	if len(raw) > MaxPortfolioSize {
		return nil, invalid("at most %d tickers are allowed, got %d", MaxPortfolioSize, len(raw))
	}
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		t, err := normalizeTicker(r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[t]; dup {
			return nil, invalid("duplicate ticker %s", t)
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}
