package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/equifolio/internal/domain/dto"
	"github.com/guttosm/equifolio/internal/logger"
)

// RecoveryMiddleware turns a panic in any handler into a 500 JSON error.
//
// The panic value and stack are logged with the request id and path; the client
// only sees a generic message, never the panic value.
//
// Example:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log := logger.Component("http")
			log.Error().
				Str("request_id", RequestIDFrom(c)).
				Str("path", c.Request.URL.Path).
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse("Internal server error", nil))
		}()

		c.Next()
	}
}
