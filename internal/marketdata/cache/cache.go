// Package cache decorates a market data provider with Redis caching.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guttosm/equifolio/internal/domain/models"
	"github.com/guttosm/equifolio/internal/logger"
	"github.com/guttosm/equifolio/internal/marketdata"
)

const (
	// DefaultTTL applies when the constructor gets a non-positive ttl.
	DefaultTTL = 5 * time.Minute
	// DefaultNamespace prefixes every key when none is given.
	DefaultNamespace = "equifolio"
)

// Provider decorates a marketdata.Provider with Redis caching. Values are
// stored as JSON. A nil client bypasses the cache entirely.
type Provider struct {
	inner     marketdata.Provider
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var (
	_ marketdata.Provider          = (*Provider)(nil)
	_ marketdata.StatementProvider = (*Provider)(nil)
)

// New wraps inner. If ttl is 0 it defaults to DefaultTTL; an empty
// namespace uses DefaultNamespace.
func New(rdb *redis.Client, ttl time.Duration, inner marketdata.Provider, namespace string) *Provider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Provider{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FetchPriceSeries returns the cached series or loads and stores it.
func (p *Provider) FetchPriceSeries(ctx context.Context, ticker, period, interval string) (models.PriceSeries, error) {
	ticker, period, interval, err := normalize(ticker, period, interval)
	if err != nil {
		return models.PriceSeries{}, err
	}
	return cached(ctx, p, p.pricesKey(ticker, period, interval), func() (models.PriceSeries, error) {
		return p.inner.FetchPriceSeries(ctx, ticker, period, interval)
	})
}

// FetchCompanyInfo returns the cached info record or loads and stores it.
func (p *Provider) FetchCompanyInfo(ctx context.Context, ticker string) (models.CompanyInfo, error) {
	ticker = marketdata.NormalizeTicker(ticker)
	return cached(ctx, p, p.infoKey(ticker), func() (models.CompanyInfo, error) {
		return p.inner.FetchCompanyInfo(ctx, ticker)
	})
}

// FetchStatements caches statements when the wrapped provider has them.
func (p *Provider) FetchStatements(ctx context.Context, ticker string) ([]models.FinancialStatement, error) {
	sp, ok := p.inner.(marketdata.StatementProvider)
	if !ok {
		return nil, marketdata.ErrUnsupported
	}
	ticker = marketdata.NormalizeTicker(ticker)
	return cached(ctx, p, p.statementsKey(ticker), func() ([]models.FinancialStatement, error) {
		return sp.FetchStatements(ctx, ticker)
	})
}

// Warm refreshes prices and info of tickers from the wrapped provider.
// Once fresh prices arrive, every cached entry of the ticker is evicted so
// other period variants and statements are reloaded on next use; a failed
// fetch leaves the cache untouched. Providers without company info are not
// an error. Failures for one ticker do not stop the others.
func (p *Provider) Warm(ctx context.Context, tickers []string, period, interval string) error {
	var errs []error
	for _, t := range tickers {
		if err := ctx.Err(); err != nil {
			return err
		}
		ticker, per, iv, err := normalize(t, period, interval)
		if err != nil {
			return err
		}

		s, err := p.inner.FetchPriceSeries(ctx, ticker, per, iv)
		if err != nil {
			errs = append(errs, fmt.Errorf("warm %s prices: %w", ticker, err))
		} else {
			if err := p.Invalidate(ctx, ticker); err != nil {
				errs = append(errs, fmt.Errorf("warm %s evict: %w", ticker, err))
			}
			p.store(ctx, p.pricesKey(ticker, per, iv), s)
		}

		info, err := p.inner.FetchCompanyInfo(ctx, ticker)
		switch {
		case errors.Is(err, marketdata.ErrUnsupported):
		case err != nil:
			errs = append(errs, fmt.Errorf("warm %s info: %w", ticker, err))
		default:
			p.store(ctx, p.infoKey(ticker), info)
		}
	}
	return errors.Join(errs...)
}

// Invalidate drops every cached entry of ticker.
func (p *Provider) Invalidate(ctx context.Context, ticker string) error {
	if p.rdb == nil {
		return nil
	}
	ticker = marketdata.NormalizeTicker(ticker)
	if err := p.deleteByPattern(ctx, p.pricesPrefix(ticker)+"*"); err != nil {
		return err
	}
	return p.rdb.Del(ctx, p.infoKey(ticker), p.statementsKey(ticker)).Err()
}

// cached checks Redis first, then falls back to load and stores the result.
func cached[T any](ctx context.Context, p *Provider, key string, load func() (T, error)) (T, error) {
	// Bypass cache if Redis is not configured
	if p.rdb == nil {
		return load()
	}

	// 1) Check cache
	if b, err := p.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		logger.L().Warn().Str("key", key).Msg("dropping corrupted cache entry")
		_ = p.rdb.Del(ctx, key).Err()
	} else if err != nil && !errors.Is(err, redis.Nil) {
		logger.L().Debug().Str("key", key).Err(err).Msg("cache read failed")
	}

	// 2) Fallback to provider
	out, err := load()
	if err != nil {
		return out, err
	}

	// 3) Store in cache (best effort)
	p.store(ctx, key, out)
	return out, nil
}

func (p *Provider) store(ctx context.Context, key string, v any) {
	if p.rdb == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := p.rdb.Set(ctx, key, b, p.ttl).Err(); err != nil {
		logger.L().Debug().Str("key", key).Err(err).Msg("cache write failed")
	}
}

func normalize(ticker, period, interval string) (string, string, string, error) {
	per, err := marketdata.ParsePeriod(period)
	if err != nil {
		return "", "", "", err
	}
	iv, err := marketdata.NormalizeInterval(interval)
	if err != nil {
		return "", "", "", err
	}
	return marketdata.NormalizeTicker(ticker), per.Name, iv, nil
}

func (p *Provider) pricesPrefix(ticker string) string {
	return fmt.Sprintf("%s:prices:%s:", p.namespace, safe(ticker))
}

func (p *Provider) pricesKey(ticker, period, interval string) string {
	return p.pricesPrefix(ticker) + safe(period) + ":" + safe(interval)
}

func (p *Provider) infoKey(ticker string) string {
	return fmt.Sprintf("%s:info:%s", p.namespace, safe(ticker))
}

func (p *Provider) statementsKey(ticker string) string {
	return fmt.Sprintf("%s:statements:%s", p.namespace, safe(ticker))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (p *Provider) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := p.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := p.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			return nil
		}
	}
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
