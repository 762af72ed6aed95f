package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/guttosm/equifolio/config"
	"github.com/guttosm/equifolio/internal/api"
	"github.com/guttosm/equifolio/internal/llm"
	"github.com/guttosm/equifolio/internal/logger"
	"github.com/guttosm/equifolio/internal/scheduler"
	"github.com/guttosm/equifolio/internal/service"
)

// llmFactory is an indirection used by InitializeApp; overridden in tests to avoid real API clients.
var llmFactory = llm.New

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to Redis using InitRedis() when a host is configured.
//   - Builds the market data and news providers, cached when Redis is up.
//   - Builds the LLM backend selected by LLM_PROVIDER.
//   - Creates the report assemblers and the HTTP handler layer.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Starts the cache warmer when a watchlist is configured.
//   - Provides a cleanup function to stop the warmer and close Redis.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	// indirection for unit testing
	rdb, err := redisOpener(cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	closeRedis := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
	}

	market, err := buildMarket(cfg, rdb)
	if err != nil {
		closeRedis()
		return nil, nil, fmt.Errorf("failed to initialize market data: %w", err)
	}
	newsProvider, err := buildNews(cfg)
	if err != nil {
		closeRedis()
		return nil, nil, fmt.Errorf("failed to initialize news: %w", err)
	}
	if cfg.News.Provider == "newsapi" && cfg.News.NewsAPIKey == "" {
		logger.L().Warn().Msg("NEWSAPI_KEY is not set; sentiment requests will fail")
	}

	gen, err := llmFactory(context.Background(), cfg.LLM)
	if err != nil {
		closeRedis()
		return nil, nil, fmt.Errorf("failed to initialize llm: %w", err)
	}

	// Initialize service layer (business logic)
	services := api.Services{
		Technical:   service.NewTechnicalService(market.provider, gen),
		Fundamental: service.NewFundamentalService(market.provider, market.statements, gen),
		Sentiment:   service.NewSentimentService(newsProvider, market.provider, gen),
		Risk:        service.NewRiskService(market.provider, market.provider, gen),
		Indicators:  service.NewIndicatorService(market.provider),
	}

	// Setup Gin router with routes
	router := api.NewRouter(api.NewHandler(services), cfg.Server)

	// Register health and readiness probes
	api.NewHealthHandler(pingFunc(rdb)).Register(router)

	var warmer *scheduler.Scheduler
	if market.cache != nil && len(cfg.Scheduler.Watchlist) > 0 {
		warmer, err = scheduler.New(cfg.Scheduler.WarmCron, cfg.Scheduler.Watchlist, market.cache)
		if err != nil {
			closeRedis()
			return nil, nil, fmt.Errorf("failed to initialize scheduler: %w", err)
		}
		warmer.Start()
	}

	logger.L().Info().
		Str("market", cfg.Market.Provider).
		Str("news", cfg.News.Provider).
		Str("llm", cfg.LLM.Provider).
		Bool("cache", rdb != nil).
		Bool("warmer", warmer != nil).
		Msg("application initialized")

	// Cleanup resources on shutdown
	cleanup := func() {
		if warmer != nil {
			warmer.Stop()
		}
		closeRedis()
	}

	return router, cleanup, nil
}

func pingFunc(rdb *redis.Client) func(context.Context) error {
	if rdb == nil {
		return nil
	}
	return func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
}
