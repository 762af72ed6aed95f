package csvfeed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/marketdata"
)

// expectedHeaders enforces strict column ordering for price files.
// A trailing "Adj Close" column is accepted and ignored.
var expectedHeaders = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

const adjCloseHeader = "Adj Close"

// parseSeries validates the header and reads every bar of one price file.
// It fails on:
//   - header not matching expected order/length
//   - malformed dates or numbers
//   - unrecoverable I/O errors
//
// It tolerates:
//   - empty cells (they become zero values)
//   - rows with an empty close, which are skipped
//
// Duplicate dates keep the last row; the result is sorted by date.
func parseSeries(ctx context.Context, r io.Reader, ticker string) (models.PriceSeries, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1 // checked explicitly below
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return models.PriceSeries{}, fmt.Errorf("read header: %w", err)
	}
	width, err := checkHeader(header)
	if err != nil {
		return models.PriceSeries{}, err
	}

	byDate := map[time.Time]models.Bar{}
	lineNumber := 1

	for {
		select {
		case <-ctx.Done():
			return models.PriceSeries{}, ctx.Err()
		default:
		}

		rec, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return models.PriceSeries{}, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++

		if len(rec) != width {
			return models.PriceSeries{}, fmt.Errorf("invalid column count on line %d: expected %d got %d", lineNumber, width, len(rec))
		}

		bar, ok, err := recordToBar(rec)
		if err != nil {
			return models.PriceSeries{}, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		if !ok {
			continue
		}
		byDate[bar.Date] = bar
	}

	bars := make([]models.Bar, 0, len(byDate))
	for _, b := range byDate {
		bars = append(bars, b)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	return models.PriceSeries{Ticker: ticker, Bars: bars}, nil
}

func checkHeader(header []string) (int, error) {
	width := len(expectedHeaders)
	if len(header) == width+1 && strings.TrimSpace(header[width]) == adjCloseHeader {
		width++
	}
	if len(header) != width {
		return 0, fmt.Errorf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header))
	}
	for i, want := range expectedHeaders {
		// strip a UTF-8 BOM left by spreadsheet exports
		h := strings.TrimPrefix(strings.TrimSpace(header[i]), "\ufeff")
		if h != want {
			return 0, fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, want, header[i])
		}
	}
	return width, nil
}

// recordToBar converts a validated record. ok is false when the row has no
// close price.
//
//	0 Date   → Date ("2006-01-02", optional time part ignored)
//	1 Open   → Open (empty→0)
//	2 High   → High (empty→0)
//	3 Low    → Low (empty→0)
//	4 Close  → Close (empty→row skipped)
//	5 Volume → Volume (empty→0)
func recordToBar(rec []string) (models.Bar, bool, error) {
	var b models.Bar

	s := strings.TrimSpace(rec[0])
	if s == "" {
		return b, false, fmt.Errorf("missing Date")
	}
	if len(s) > 10 {
		s = s[:10]
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return b, false, fmt.Errorf("invalid Date: %v", err)
	}
	b.Date = marketdata.SessionDate(d)

	if strings.TrimSpace(rec[4]) == "" {
		return b, false, nil
	}

	cols := []struct {
		name string
		dst  *float64
		cell string
	}{
		{"Open", &b.Open, rec[1]},
		{"High", &b.High, rec[2]},
		{"Low", &b.Low, rec[3]},
		{"Close", &b.Close, rec[4]},
		{"Volume", &b.Volume, rec[5]},
	}
	for _, c := range cols {
		s := strings.TrimSpace(c.cell)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return b, false, fmt.Errorf("invalid %s: %v", c.name, err)
		}
		*c.dst = v
	}
	return b, true, nil
}
