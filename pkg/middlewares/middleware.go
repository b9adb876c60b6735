package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"lovemap/internal/core/telemetry"
	"lovemap/pkg/config"
	"lovemap/pkg/logger"
)

func MetricsMiddleware(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RateLimitMiddleware is a pass-through when rate limiting is disabled.
// Mount it after the JWT middleware on protected groups so limits are keyed per user.
func RateLimitMiddleware(cfg config.RateLimitConfig, log *logger.LokiLogger, metrics *telemetry.AppMetrics) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	var recorder config.RateLimitRecorder
	if metrics != nil {
		recorder = metrics
	}

	return config.NewRateLimiter(cfg, log.Zap(), recorder).RateLimitMiddleware()
}

// SetupGinMiddleware installs the global chain: HTTPS redirect, tracing,
// request logging, recovery, CORS and request metrics.
func SetupGinMiddleware(router *gin.Engine, cfg *config.AppConfig, metrics *telemetry.AppMetrics, log *logger.LokiLogger) {
	httpsEnforcer := config.NewHTTPSEnforcer(cfg.App, log.Zap())
	router.Use(httpsEnforcer.HTTPSMiddleware())

	router.Use(otelgin.Middleware(cfg.App.Name))

	router.Use(LoggingMiddleware(log))
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())

	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}
}
