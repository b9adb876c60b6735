package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lovemap/pkg/auth"
	ct "lovemap/pkg/context"
	"lovemap/pkg/logger"
)

// LoggingMiddleware writes one line per request. 5xx responses log at error
// level and 4xx at warn.
func LoggingMiddleware(log *logger.LokiLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		status := c.Writer.Status()
		ctx := c.Request.Context()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}

		if current, ok := ct.FromContext(ctx); ok && current.RequestID() != "" {
			fields = append(fields, zap.String("request_id", current.RequestID()))
		}

		if userID, ok := c.Get(auth.UserIDKey); ok {
			fields = append(fields, zap.Any("user_id", userID))
		}

		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.ErrorWithTrace(ctx, "HTTP Request", fields...)
		case status >= 400:
			log.WarnWithTrace(ctx, "HTTP Request", fields...)
		default:
			log.InfoWithTrace(ctx, "HTTP Request", fields...)
		}
	}
}
