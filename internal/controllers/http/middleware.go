package http

import (
	"time"

	"nexus-market/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger attaches method and path to the request context and logs
// the outcome of every request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := log.WithField(c.Request.Context(), "method", c.Request.Method)
		ctx = log.WithField(ctx, "path", c.Request.URL.Path)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		ctx = log.WithField(ctx, "status", c.Writer.Status())
		log.Infof(ctx, "request.complete", "duration_ms", time.Since(start).Milliseconds())
	}
}
