// Package csvfeed is an offline market data provider backed by a directory
// of CSV price files, one per ticker.
package csvfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/logger"
	"github.com/guttosm/equifolio/internal/marketdata"
)

const (
	priceSuffix = ".csv"
	infoSuffix  = ".info.json"

	maxParallel = 8
)

// Feed reads <dir>/<TICKER>.csv and <dir>/<TICKER>.info.json.
type Feed struct {
	dir string
}

var _ marketdata.Provider = (*Feed)(nil)

// New returns a Feed rooted at dir.
func New(dir string) *Feed {
	return &Feed{dir: dir}
}

// FetchPriceSeries reads the ticker's file and keeps the bars inside period.
// Intervals other than daily are rejected because files hold daily bars.
func (f *Feed) FetchPriceSeries(ctx context.Context, ticker, period, interval string) (models.PriceSeries, error) {
	ticker = marketdata.NormalizeTicker(ticker)
	p, err := marketdata.ParsePeriod(period)
	if err != nil {
		return models.PriceSeries{}, err
	}
	iv, err := marketdata.NormalizeInterval(interval)
	if err != nil {
		return models.PriceSeries{}, err
	}
	if iv != marketdata.DefaultInterval {
		return models.PriceSeries{}, fmt.Errorf("%w: csv files hold daily bars, got interval %s", marketdata.ErrUnsupported, iv)
	}

	s, err := f.readSeries(ctx, ticker)
	if err != nil {
		return models.PriceSeries{}, err
	}

	// Anchor the window on the last bar so stored files stay usable.
	if len(s.Bars) > 0 {
		since := p.Since(s.Last().Date)
		i := 0
		for i < len(s.Bars) && s.Bars[i].Date.Before(since) {
			i++
		}
		s.Bars = s.Bars[i:]
	}
	if len(s.Bars) == 0 {
		return models.PriceSeries{}, fmt.Errorf("%w: %s: no bars in file", marketdata.ErrNotFound, ticker)
	}
	return s, nil
}

func (f *Feed) readSeries(ctx context.Context, ticker string) (models.PriceSeries, error) {
	path := filepath.Join(f.dir, ticker+priceSuffix)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.PriceSeries{}, fmt.Errorf("%w: %s", marketdata.ErrNotFound, ticker)
		}
		return models.PriceSeries{}, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = file.Close() }()

	s, err := parseSeries(ctx, file, ticker)
	if err != nil {
		return models.PriceSeries{}, fmt.Errorf("file %s: %w", path, err)
	}
	return s, nil
}

// FetchCompanyInfo decodes <TICKER>.info.json. A missing file is
// marketdata.ErrNotFound.
func (f *Feed) FetchCompanyInfo(_ context.Context, ticker string) (models.CompanyInfo, error) {
	ticker = marketdata.NormalizeTicker(ticker)
	raw, err := os.ReadFile(filepath.Join(f.dir, ticker+infoSuffix))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s info", marketdata.ErrNotFound, ticker)
		}
		return nil, err
	}
	info := models.CompanyInfo{}
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("decode %s info: %w", ticker, err)
	}
	if _, ok := info["symbol"]; !ok {
		info["symbol"] = ticker
	}
	return info, nil
}

// LoadDirectory reads the price files of tickers concurrently.
//
// Behavior:
//   - Uses a concurrency limit of min(maxParallel, NumCPU), or parallel when set.
//   - Results keep the order of tickers.
//   - If any file returns error, cancels the rest and returns that error.
func (f *Feed) LoadDirectory(ctx context.Context, tickers []string, period string, parallel int) ([]models.PriceSeries, error) {
	limit := maxParallel
	if parallel > 0 {
		limit = min(parallel, maxParallel)
	} else if c := runtime.NumCPU(); c < limit {
		limit = c
	}

	logger.L().Info().Int("files", len(tickers)).Str("dir", f.dir).Int("max_parallel", limit).Msg("csv load start")

	out := make([]models.PriceSeries, len(tickers))

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, t := range tickers {
		g.Go(func() error {
			start := time.Now()
			s, err := f.FetchPriceSeries(gctx, t, period, marketdata.DefaultInterval)
			if err != nil {
				logger.L().Error().Str("ticker", t).Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				return err
			}
			out[i] = s
			logger.L().Debug().Str("ticker", t).Int("rows", s.Len()).Dur("elapsed", time.Since(start)).Msg("file done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
