package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/equifolio/internal/domain/dto"
	"github.com/guttosm/equifolio/internal/logger"
	"github.com/guttosm/equifolio/internal/middleware"
	"github.com/guttosm/equifolio/internal/service"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// Services groups the report assemblers used by the handlers.
type Services struct {
	Technical   service.TechnicalService
	Fundamental service.FundamentalService
	Sentiment   service.SentimentService
	Risk        service.RiskService
	Indicators  service.IndicatorService
}

// Handler provides HTTP handlers for the analysis endpoints.
//
// Responsibilities:
//   - Bind and validate request bodies and parameters
//   - Delegate to the report assemblers
//   - Translate service errors into dto.ErrorResponse with the matching status
type Handler struct {
	svc Services
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc}
}

// Root godoc
// @Summary      Service info
// @Description  Returns the API name, version and the available endpoints
// @Tags         info
// @Produce      json
// @Success      200  {object}  dto.RootResponse
// @Router       / [get]
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.RootResponse{
		Message: "EquiFolio analysis API",
		Version: Version,
		Endpoints: []string{
			"POST /api/v1/technical",
			"POST /api/v1/fundamental",
			"POST /api/v1/sentiment",
			"POST /api/v1/risk",
			"POST /api/v1/risk/metrics",
			"GET /api/v1/indicators/:ticker",
			"GET /healthz",
			"GET /readyz",
		},
	})
}

// Technical godoc
// @Summary      Technical analysis
// @Description  Computes indicators over the price history of a ticker and asks the LLM for a technical reading
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body      dto.TechnicalRequest   true  "Ticker and period"
// @Success      200      {object}  dto.TechnicalResponse
// @Failure      400      {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404      {object}  dto.ErrorResponse  "No data"
// @Failure      502      {object}  dto.ErrorResponse  "Upstream failure"
// @Router       /api/v1/technical [post]
func (h *Handler) Technical(c *gin.Context) {
	var req dto.TechnicalRequest
	if !bind(c, &req) {
		return
	}
	rep, err := h.svc.Technical.Analyze(c.Request.Context(), req.Ticker, req.Period)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TechnicalResponse{Status: dto.StatusSuccess, TechnicalReport: *rep})
}

// Fundamental godoc
// @Summary      Fundamental analysis
// @Description  Extracts valuation ratios and statements of a company and asks the LLM for a fundamental reading
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body      dto.FundamentalRequest  true  "Ticker"
// @Success      200      {object}  dto.FundamentalResponse
// @Failure      400      {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404      {object}  dto.ErrorResponse  "No data"
// @Failure      502      {object}  dto.ErrorResponse  "Upstream failure"
// @Router       /api/v1/fundamental [post]
func (h *Handler) Fundamental(c *gin.Context) {
	var req dto.FundamentalRequest
	if !bind(c, &req) {
		return
	}
	rep, err := h.svc.Fundamental.Analyze(c.Request.Context(), req.Ticker)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FundamentalResponse{Status: dto.StatusSuccess, FundamentalReport: *rep})
}

// Sentiment godoc
// @Summary      News sentiment
// @Description  Scores recent news articles about a ticker and summarises the overall sentiment
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body      dto.SentimentRequest  true  "Ticker and lookback in days (1-30)"
// @Success      200      {object}  dto.SentimentResponse
// @Failure      400      {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404      {object}  dto.ErrorResponse  "No articles"
// @Failure      502      {object}  dto.ErrorResponse  "Upstream failure"
// @Router       /api/v1/sentiment [post]
func (h *Handler) Sentiment(c *gin.Context) {
	var req dto.SentimentRequest
	if !bind(c, &req) {
		return
	}
	rep, err := h.svc.Sentiment.Analyze(c.Request.Context(), req.Ticker, req.DaysBack)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SentimentResponse{Status: dto.StatusSuccess, SentimentReport: *rep})
}

// Risk godoc
// @Summary      Portfolio risk analysis
// @Description  Computes portfolio risk metrics and asks the LLM for a risk assessment
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body      dto.RiskRequest  true  "Tickers, period and optional weights"
// @Success      200      {object}  dto.RiskResponse
// @Failure      400      {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404      {object}  dto.ErrorResponse  "No data"
// @Failure      502      {object}  dto.ErrorResponse  "Upstream failure"
// @Router       /api/v1/risk [post]
func (h *Handler) Risk(c *gin.Context) {
	var req dto.RiskRequest
	if !bind(c, &req) {
		return
	}
	rep, err := h.svc.Risk.Analyze(c.Request.Context(), req.Tickers, req.Period, req.Weights)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RiskResponse{Status: dto.StatusSuccess, RiskReport: *rep})
}

// RiskMetrics godoc
// @Summary      Portfolio risk metrics
// @Description  Computes portfolio risk metrics without calling the LLM
// @Tags         engines
// @Accept       json
// @Produce      json
// @Param        request  body      dto.RiskRequest  true  "Tickers, period and optional weights"
// @Success      200      {object}  dto.MetricsResponse
// @Failure      400      {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404      {object}  dto.ErrorResponse  "No data"
// @Router       /api/v1/risk/metrics [post]
func (h *Handler) RiskMetrics(c *gin.Context) {
	var req dto.RiskRequest
	if !bind(c, &req) {
		return
	}
	m, err := h.svc.Risk.Metrics(c.Request.Context(), req.Tickers, req.Period, req.Weights)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MetricsResponse{
		Status:           dto.StatusSuccess,
		PortfolioMetrics: *m,
		Formatted:        service.FormatMetrics(m),
	})
}

// Indicators godoc
// @Summary      Technical indicators
// @Description  Returns the price history of a ticker enriched with SMA, EMA, MACD, RSI and Bollinger Bands
// @Tags         engines
// @Produce      json
// @Param        ticker    path      string  true   "Ticker"    example(AAPL)
// @Param        period    query     string  false  "Lookback"  example(6mo)
// @Param        interval  query     string  false  "Bar size"  example(1d)
// @Success      200       {object}  dto.IndicatorsResponse
// @Failure      400       {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404       {object}  dto.ErrorResponse  "No data"
// @Router       /api/v1/indicators/{ticker} [get]
func (h *Handler) Indicators(c *gin.Context) {
	out, err := h.svc.Indicators.Indicators(c.Request.Context(), c.Param("ticker"), c.Query("period"), c.Query("interval"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.IndicatorsResponse{Status: dto.StatusSuccess, IndicatorSeries: *out})
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

// statusFor maps a service error to an HTTP status and a client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, service.ErrNoArticles):
		return http.StatusNotFound, "no news articles found"
	case errors.Is(err, service.ErrNoData):
		return http.StatusNotFound, "no data found"
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway, "upstream provider failed"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	}
	return http.StatusInternalServerError, "internal error"
}

func respondError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.L().Error().Err(err).Str("path", c.Request.URL.Path).Int("status", status).Msg("request failed")
	}
	middleware.AbortWithError(c, status, msg, err)
}
