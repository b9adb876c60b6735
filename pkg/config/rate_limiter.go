package config

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"lovemap/pkg"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const defaultRouteKey = "default"

// RateLimitRecorder receives allow/deny decisions, usually AppMetrics.
type RateLimitRecorder interface {
	RecordRateLimitHit(ctx context.Context, endpoint, keyType string)
	RecordRateLimitAllowed(ctx context.Context, endpoint, keyType string)
}

type RateLimitEndpointConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*gin.Context) string
}

type RateLimiter struct {
	cache    *cache.Cache
	config   map[string]RateLimitEndpointConfig
	logger   *zap.Logger
	recorder RateLimitRecorder
	mutex    sync.RWMutex
}

type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(cfg RateLimitConfig, logger *zap.Logger, recorder RateLimitRecorder) *RateLimiter {
	configs := make(map[string]RateLimitEndpointConfig, len(cfg.Routes)+1)

	for route, limit := range cfg.Routes {
		keyFunc := getUserID
		if isPublicRoute(route) {
			keyFunc = pkg.GetClientIP
		}

		configs[route] = RateLimitEndpointConfig{
			Requests: limit.Requests,
			Window:   limit.Window,
			KeyFunc:  keyFunc,
		}
	}

	def := cfg.Default
	if def.Requests <= 0 {
		def = RouteLimit{Requests: 60, Window: time.Minute}
	}

	// per user once JWT has run, per IP before
	configs[defaultRouteKey] = RateLimitEndpointConfig{
		Requests: def.Requests,
		Window:   def.Window,
		KeyFunc:  getUserID,
	}

	return &RateLimiter{
		cache:    cache.New(5*time.Minute, 10*time.Minute),
		config:   configs,
		logger:   logger,
		recorder: recorder,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		routeKey, config := rl.lookup(c.Request.Method, path)
		key := rl.generateKey(c, routeKey, config.KeyFunc)

		rl.logger.Debug("Rate limit check",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("route", routeKey),
			zap.String("key", key),
			zap.Int("limit", config.Requests),
			zap.Duration("window", config.Window))

		allowed, remaining, resetTime := rl.checkRateLimit(key, config)

		keyType := "ip"
		if strings.Contains(key, "user_") {
			keyType = "user"
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.recorder != nil {
				rl.recorder.RecordRateLimitHit(c.Request.Context(), path, keyType)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", config.Requests),
				zap.Duration("window", config.Window))

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     fmt.Sprintf("Too many requests. Limit: %d per %v", config.Requests, config.Window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			c.Abort()
			return
		}

		if rl.recorder != nil {
			rl.recorder.RecordRateLimitAllowed(c.Request.Context(), path, keyType)
		}

		c.Next()
	}
}

// lookup tries "METHOD /full/:pattern", then "METHOD /first-segment", then the default.
func (rl *RateLimiter) lookup(method, path string) (string, RateLimitEndpointConfig) {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	exact := method + " " + path
	if config, ok := rl.config[exact]; ok {
		return exact, config
	}

	prefix := method + " " + firstSegment(path)
	if config, ok := rl.config[prefix]; ok {
		return prefix, config
	}

	return defaultRouteKey, rl.config[defaultRouteKey]
}

func (rl *RateLimiter) checkRateLimit(key string, config RateLimitEndpointConfig) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if entry, found := rl.cache.Get(key); found {
		rateLimitEntry := entry.(RateLimitEntry)

		if now.After(rateLimitEntry.ResetTime) {
			resetTime := now.Add(config.Window)
			rl.cache.Set(key, RateLimitEntry{Count: 1, ResetTime: resetTime}, config.Window)
			return true, config.Requests - 1, resetTime
		}

		if rateLimitEntry.Count >= config.Requests {
			return false, 0, rateLimitEntry.ResetTime
		}

		rateLimitEntry.Count++
		rl.cache.Set(key, rateLimitEntry, time.Until(rateLimitEntry.ResetTime))

		return true, config.Requests - rateLimitEntry.Count, rateLimitEntry.ResetTime
	}

	resetTime := now.Add(config.Window)
	rl.cache.Set(key, RateLimitEntry{Count: 1, ResetTime: resetTime}, config.Window)

	return true, config.Requests - 1, resetTime
}

func (rl *RateLimiter) generateKey(c *gin.Context, route string, keyFunc func(*gin.Context) string) string {
	return fmt.Sprintf("rate_limit:%s:%s", route, keyFunc(c))
}

func firstSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return "/" + trimmed
}

func isPublicRoute(route string) bool {
	return strings.HasSuffix(route, " /signup") || strings.HasSuffix(route, " /auth")
}

func getUserID(c *gin.Context) string {
	if userID, exists := c.Get("x-user-id"); exists {
		return fmt.Sprintf("user_%v", userID)
	}
	return pkg.GetClientIP(c)
}

func (rl *RateLimiter) SetConfig(route string, config RateLimitEndpointConfig) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.config[route] = config
}

func (rl *RateLimiter) GetStats() map[string]any {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	return map[string]any{
		"active_entries": rl.cache.ItemCount(),
		"configs":        len(rl.config),
	}
}
