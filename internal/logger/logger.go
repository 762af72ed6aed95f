// Package logger holds the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Service is attached to every log line.
const Service = "equifolio"

var (
	base  zerolog.Logger
	ready atomic.Bool
)

// Init configures the global JSON logger from the environment.
//
// Environment variables (optional):
//   - LOG_LEVEL: debug|info|warn|error (default: info)
//   - LOG_PRETTY: true|false (default: false)
func Init() {
	Configure(getenv("LOG_LEVEL", "info"), strings.EqualFold(getenv("LOG_PRETTY", "false"), "true"))
}

// Configure sets the level and output format explicitly, typically from
// config.AppConfig.Log once the configuration is loaded.
func Configure(level string, pretty bool) {
	ConfigureWriter(os.Stdout, level, pretty)
}

// ConfigureWriter is Configure with an explicit destination.
func ConfigureWriter(out io.Writer, level string, pretty bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	w := out
	if pretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	base = zerolog.New(w).With().Timestamp().Str("service", Service).Logger().Level(parseLevel(level))
	ready.Store(true)
}

// L returns the global logger, initializing it from the environment on
// first use.
func L() *zerolog.Logger {
	if !ready.Load() {
		Init()
	}
	return &base
}

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return L().With().Str("component", name).Logger()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
