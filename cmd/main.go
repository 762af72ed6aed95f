package main

//
//  @title           EquiFolio API
//  @version         1.0
//  @description     Equity analysis service: technical, fundamental, news sentiment and portfolio risk reports.
//  @termsOfService  https://github.com/guttosm/equifolio
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/equifolio
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        analysis
//  @tag.description LLM-backed analysis reports
//
//  @tag.name        engines
//  @tag.description Raw indicator and risk computations
//
//  @tag.name        info
//  @tag.description Service metadata
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/equifolio/config"
	_ "github.com/guttosm/equifolio/docs" // swagger docs
	"github.com/guttosm/equifolio/internal/app"
	"github.com/guttosm/equifolio/internal/logger"
	"github.com/guttosm/equifolio/internal/marketdata"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//   - writeTimeout (time.Duration): Upper bound for writing a response; analysis requests are slow.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string, writeTimeout time.Duration) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (scheduler, Redis).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the equifolio application.
//
// Modes (selected via --mode flag):
//   - api:    Starts the REST API serving analysis reports.
//   - report: Prints portfolio risk metrics and the latest indicators as JSON, without the LLM.
//
// Flags:
//   - --mode:     Execution mode ("api" or "report"). Default: "api".
//   - --port:     Port for the API server. Defaults to value from config (SERVER_PORT).
//   - --tickers:  Comma separated tickers for report mode.
//   - --period:   Lookback for report mode. Default: "1y".
//   - --data:     Directory with <TICKER>.csv files; report mode runs offline when set.
//   - --parallel: How many tickers to load concurrently (0=auto).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Configure(config.AppConfig.Log.Level, config.AppConfig.Log.Pretty)

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "api", "Mode: api or report")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	tickers := flag.String("tickers", "", "Comma separated tickers for report mode")
	period := flag.String("period", marketdata.DefaultPeriod, "Lookback period for report mode")
	data := flag.String("data", "", "Directory with <TICKER>.csv files for an offline report")
	parallel := flag.Int("parallel", 0, "How many tickers to load concurrently (0=auto)")
	flag.Parse()

	switch *mode {
	case "report":
		logger.L().Info().Str("tickers", *tickers).Str("period", *period).Bool("offline", *data != "").Msg("running report")

		var online marketdata.PriceProvider
		if *data == "" {
			p, err := app.NewMarketProvider(config.AppConfig.Market)
			if err != nil {
				logger.L().Fatal().Err(err).Msg("market provider error")
			}
			online = p
		}

		opts := reportOptions{Tickers: parseTickers(*tickers), Period: *period, DataDir: *data, Parallel: *parallel}
		if err := runReport(ctx, os.Stdout, opts, online); err != nil {
			logger.L().Fatal().Err(err).Msg("report failed")
		}

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port, config.AppConfig.Server.RequestTimeout)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
