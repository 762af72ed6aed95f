package app

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/guttosm/equifolio/config"
	"github.com/guttosm/equifolio/internal/marketdata"
	"github.com/guttosm/equifolio/internal/marketdata/alpaca"
	"github.com/guttosm/equifolio/internal/marketdata/cache"
	"github.com/guttosm/equifolio/internal/marketdata/csvfeed"
	"github.com/guttosm/equifolio/internal/marketdata/eodhd"
	"github.com/guttosm/equifolio/internal/marketdata/yahoo"
	"github.com/guttosm/equifolio/internal/news"
)

// marketSources is the market data wiring handed to the services.
type marketSources struct {
	provider   marketdata.Provider
	statements marketdata.StatementProvider // nil when the provider has none
	cache      *cache.Provider              // nil when Redis is disabled
}

// NewMarketProvider builds the provider selected by cfg.Provider without
// any caching.
//
// Alpaca serves bars only, so company data for it comes from Yahoo.
func NewMarketProvider(cfg config.MarketConfig) (marketdata.Provider, error) {
	switch cfg.Provider {
	case "yahoo", "":
		return yahoo.New(), nil
	case "eodhd":
		if cfg.EODHDAPIKey == "" {
			return nil, fmt.Errorf("EODHD_API_KEY is required for the eodhd provider")
		}
		return eodhd.NewClient(cfg.EODHDAPIKey,
			eodhd.WithExchange(cfg.EODHDExchange),
			eodhd.WithRateLimit(cfg.EODHDRateLimit),
		), nil
	case "alpaca":
		if cfg.AlpacaKeyID == "" || cfg.AlpacaSecretKey == "" {
			return nil, fmt.Errorf("APCA_API_KEY_ID and APCA_API_SECRET_KEY are required for the alpaca provider")
		}
		y := yahoo.New()
		return marketdata.Combine(alpaca.NewProvider(cfg.AlpacaKeyID, cfg.AlpacaSecretKey), y, y), nil
	case "csv":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("MARKET_DATA_DIR is required for the csv provider")
		}
		return csvfeed.New(cfg.DataDir), nil
	}
	return nil, fmt.Errorf("unknown market provider %q", cfg.Provider)
}

// buildMarket selects the provider and wraps it with the Redis cache when
// rdb is not nil.
func buildMarket(cfg config.Config, rdb *redis.Client) (marketSources, error) {
	p, err := NewMarketProvider(cfg.Market)
	if err != nil {
		return marketSources{}, err
	}
	out := marketSources{provider: p}
	if sp, ok := p.(marketdata.StatementProvider); ok {
		out.statements = sp
	}
	if rdb != nil {
		c := cache.New(rdb, cfg.Redis.CacheTTL, p, cache.DefaultNamespace)
		out.provider, out.cache = c, c
		if out.statements != nil {
			out.statements = c
		}
	}
	return out, nil
}

// buildNews selects the news provider. EODHD news reuses the market key.
func buildNews(cfg config.Config) (news.Provider, error) {
	switch cfg.News.Provider {
	case "newsapi", "":
		return news.NewNewsAPI(cfg.News.NewsAPIKey), nil
	case "eodhd":
		if cfg.Market.EODHDAPIKey == "" {
			return nil, fmt.Errorf("EODHD_API_KEY is required for eodhd news")
		}
		return eodhd.NewClient(cfg.Market.EODHDAPIKey,
			eodhd.WithExchange(cfg.Market.EODHDExchange),
			eodhd.WithRateLimit(cfg.Market.EODHDRateLimit),
		), nil
	}
	return nil, fmt.Errorf("unknown news provider %q", cfg.News.Provider)
}
