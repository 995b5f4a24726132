package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/docsum-be/types"
	"go.uber.org/zap"
)

// Logger writes one access log line per request.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(string(types.RequestIDKey))),
		}
		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			logger.Error("Request", fields...)
		} else {
			logger.Info("Request", fields...)
		}
	}
}

// Recovery turns a panic into the JSON error envelope so one bad request never
// takes the server down.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(string(types.RequestIDKey))),
			zap.Error(fmt.Errorf("%v", recovered)),
			zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse{
			Success: false,
			Error:   "Internal server error",
		})
	})
}
