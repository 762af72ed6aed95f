package csvfeed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/equifolio/internal/marketdata"
)

func writeTempFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

// dailyCSV writes n consecutive daily bars ending on end.
func dailyCSV(n int, end time.Time) string {
	var b strings.Builder
	b.WriteString("Date,Open,High,Low,Close,Volume\n")
	start := end.AddDate(0, 0, -(n - 1))
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		fmt.Fprintf(&b, "%s,%d,%d,%d,%d,100\n", d.Format("2006-01-02"), 100+i, 101+i, 99+i, 100+i)
	}
	return b.String()
}

func TestFeed_FetchPriceSeries(t *testing.T) {
	dir := t.TempDir()
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	writeTempFile(t, dir, "AAPL.csv", dailyCSV(400, end))
	writeTempFile(t, dir, "BROKEN.csv", "nope\n")

	f := New(dir)
	ctx := context.Background()

	cases := []struct {
		name     string
		ticker   string
		period   string
		interval string
		wantBars int
		wantErr  error
	}{
		{name: "one month window", ticker: "aapl", period: "1mo", interval: "1d", wantBars: 32},
		{name: "max keeps all", ticker: "AAPL", period: "max", interval: "", wantBars: 400},
		{name: "missing file", ticker: "MSFT", period: "1y", wantErr: marketdata.ErrNotFound},
		{name: "weekly unsupported", ticker: "AAPL", period: "1y", interval: "1wk", wantErr: marketdata.ErrUnsupported},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := f.FetchPriceSeries(ctx, tc.ticker, tc.period, tc.interval)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Ticker != "AAPL" {
				t.Fatalf("ticker: got %q", s.Ticker)
			}
			if s.Len() != tc.wantBars {
				t.Fatalf("bars: want %d got %d", tc.wantBars, s.Len())
			}
			if !s.Last().Date.Equal(end) {
				t.Fatalf("last date: got %v", s.Last().Date)
			}
		})
	}

	if _, err := f.FetchPriceSeries(ctx, "BROKEN", "1y", "1d"); err == nil || errors.Is(err, marketdata.ErrNotFound) {
		t.Fatalf("expected header error, got %v", err)
	}
}

func TestFeed_FetchCompanyInfo(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "AAPL.info.json", `{"shortName":"Apple Inc.","sector":"Technology","trailingPE":31.5}`)
	writeTempFile(t, dir, "BAD.info.json", `{`)
	f := New(dir)

	info, err := f.FetchCompanyInfo(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.String("sector") != "Technology" || info.String("symbol") != "AAPL" {
		t.Fatalf("unexpected info %v", info)
	}
	if pe, ok := info.Float("trailingPE"); !ok || pe != 31.5 {
		t.Fatalf("trailingPE: got %v %v", pe, ok)
	}

	if _, err := f.FetchCompanyInfo(context.Background(), "MSFT"); !errors.Is(err, marketdata.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := f.FetchCompanyInfo(context.Background(), "BAD"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFeed_LoadDirectory(t *testing.T) {
	dir := t.TempDir()
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	for _, tk := range []string{"AAA", "BBB", "CCC"} {
		writeTempFile(t, dir, tk+".csv", dailyCSV(30, end))
	}
	f := New(dir)

	got, err := f.LoadDirectory(context.Background(), []string{"CCC", "AAA", "BBB"}, "max", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []string{"CCC", "AAA", "BBB"} {
		if got[i].Ticker != want || got[i].Len() != 30 {
			t.Fatalf("series %d: got %s with %d bars", i, got[i].Ticker, got[i].Len())
		}
	}

	if _, err := f.LoadDirectory(context.Background(), []string{"AAA", "ZZZ"}, "max", 0); !errors.Is(err, marketdata.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
