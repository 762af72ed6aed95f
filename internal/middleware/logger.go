package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/equifolio/internal/logger"
)

// quietPaths are probe endpoints logged at debug so they do not drown real traffic.
var quietPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLogger writes one structured line per request.
//
// Fields: request_id, method, path, status, latency_ms, bytes, client_ip, and
// errors when handlers attached any to the context. 5xx responses log at
// error, 4xx at warn, everything else at info (probes at debug).
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RequestLogger())
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		log := logger.L()
		ev := log.WithLevel(levelFor(status, path))
		ev = ev.
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Int("bytes", max(c.Writer.Size(), 0)).
			Str("client_ip", c.ClientIP())
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Msg("http_request")
	}
}

func levelFor(status int, path string) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	}
	if _, ok := quietPaths[path]; ok {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
