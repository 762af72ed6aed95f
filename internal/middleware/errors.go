package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/equifolio/internal/domain/dto"
	"github.com/guttosm/equifolio/internal/logger"
)

// ErrorHandler turns errors attached with c.Error into a 500 JSON response
// when the handler did not write one itself.
//
// Usage:
//
//	router.Use(middleware.ErrorHandler)
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	err := c.Errors.Last()
	logger.L().Error().Err(err.Err).Str("path", c.Request.URL.Path).Msg("unhandled request error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", err.Err))
}

// AbortWithError writes a dto.ErrorResponse with the given status and stops
// the handler chain.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
