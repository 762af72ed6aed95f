package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/equifolio/config"
	"github.com/guttosm/equifolio/internal/middleware"
)

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, CORS, RateLimiter).
//   - Bounds every request context by cfg.RequestTimeout.
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures the root info route and API v1 routes (/api/v1).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, cfg config.ServerConfig) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.CORS(),
		middleware.RateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		middleware.Timeout(cfg.RequestTimeout),
	)

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", handler.Root)

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		v1.POST("/technical", handler.Technical)
		v1.POST("/fundamental", handler.Fundamental)
		v1.POST("/sentiment", handler.Sentiment)
		v1.POST("/risk", handler.Risk)
		v1.POST("/risk/metrics", handler.RiskMetrics)
		v1.GET("/indicators/:ticker", handler.Indicators)
	}

	return router
}
