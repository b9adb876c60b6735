package config

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"lovemap/internal/core/telemetry"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func testLimits() RateLimitConfig {
	return RateLimitConfig{
		Enabled: true,
		Routes: map[string]RouteLimit{
			"POST /auth":         {Requests: 3, Window: time.Minute},
			"POST /todos":        {Requests: 20, Window: time.Minute},
			"PUT /todos/:id":     {Requests: 10, Window: time.Minute},
			"DELETE /posts":      {Requests: 5, Window: time.Minute},
			"GET /posts":         {Requests: 100, Window: time.Minute},
			"PUT /profile/image": {Requests: 2, Window: 50 * time.Millisecond},
		},
		Default: RouteLimit{Requests: 60, Window: time.Minute},
	}
}

func newTestLimiter() *RateLimiter {
	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())
	return NewRateLimiter(testLimits(), zap.NewNop(), metrics)
}

func newLimitedRouter(rl *RateLimiter, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if userID != "" {
		router.Use(func(c *gin.Context) {
			c.Set("x-user-id", userID)
			c.Next()
		})
	}
	router.Use(rl.RateLimitMiddleware())
	return router
}

func TestNewRateLimiter(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestLimiter()

	Expect(rl.cache).ToNot(BeNil())
	Expect(rl.config).To(HaveLen(len(testLimits().Routes) + 1))
	Expect(rl.config).To(HaveKey(defaultRouteKey))
	Expect(rl.recorder).ToNot(BeNil())
}

func TestNewRateLimiter_FallsBackToDefaultLimit(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(RateLimitConfig{}, zap.NewNop(), nil)

	Expect(rl.config[defaultRouteKey].Requests).To(Equal(60))
	Expect(rl.config[defaultRouteKey].Window).To(Equal(time.Minute))
}

func TestRateLimitMiddleware_DefaultLimit(t *testing.T) {
	RegisterTestingT(t)
	router := newLimitedRouter(newTestLimiter(), "")
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for i := 0; i < 65; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
		router.ServeHTTP(w, req)

		if i < 60 {
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("60"))
		} else {
			Expect(w.Code).To(Equal(http.StatusTooManyRequests))
		}
	}
}

func TestRateLimitMiddleware_ExactRoutePattern(t *testing.T) {
	RegisterTestingT(t)
	router := newLimitedRouter(newTestLimiter(), "42")
	router.PUT("/todos/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	expected := []int{9, 8, 7, 6, 5}
	for i := range expected {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPut, "/todos/abc-"+strconv.Itoa(i), nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal(strconv.Itoa(expected[i])))
	}
}

func TestRateLimitMiddleware_FirstSegmentFallback(t *testing.T) {
	RegisterTestingT(t)
	router := newLimitedRouter(newTestLimiter(), "42")
	router.DELETE("/posts/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for i := 0; i < 6; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodDelete, "/posts/"+strconv.Itoa(i), nil)
		router.ServeHTTP(w, req)

		if i < 5 {
			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("5"))
		} else {
			Expect(w.Code).To(Equal(http.StatusTooManyRequests))
		}
	}
}

func TestRateLimitMiddleware_UsersAreCountedSeparately(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestLimiter()

	for _, user := range []string{"1", "2"} {
		router := newLimitedRouter(rl, user)
		router.POST("/todos", func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/todos", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal("19"))
	}
}

func TestRateLimitMiddleware_DefaultRouteKeysByUser(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestLimiter()

	for _, user := range []string{"1", "2"} {
		router := newLimitedRouter(rl, user)
		router.PUT("/posts/:id", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPut, "/posts/3", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1")
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("60"))
		Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal("59"))
	}

	keys := make([]string, 0)
	for key := range rl.cache.Items() {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	Expect(keys).To(Equal([]string{"rate_limit:default:user_1", "rate_limit:default:user_2"}))
}

func TestRateLimitMiddleware_PublicRoutesKeyByIP(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestLimiter()
	router := newLimitedRouter(rl, "")
	router.POST("/auth", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/auth", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		router.ServeHTTP(w, req)

		if i < 3 {
			Expect(w.Code).To(Equal(http.StatusOK))
		} else {
			Expect(w.Code).To(Equal(http.StatusTooManyRequests))
		}
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/auth", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.9")
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(http.StatusOK))
}

func TestRateLimitMiddleware_WindowReset(t *testing.T) {
	RegisterTestingT(t)
	router := newLimitedRouter(newTestLimiter(), "7")
	router.PUT("/profile/image", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func() int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPut, "/profile/image", nil)
		router.ServeHTTP(w, req)
		return w.Code
	}

	Expect(send()).To(Equal(http.StatusOK))
	Expect(send()).To(Equal(http.StatusOK))
	Expect(send()).To(Equal(http.StatusTooManyRequests))

	time.Sleep(80 * time.Millisecond)

	Expect(send()).To(Equal(http.StatusOK))
}

func TestRateLimiterGetStats(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestLimiter()

	stats := rl.GetStats()
	Expect(stats["active_entries"]).To(Equal(0))
	Expect(stats["configs"]).To(Equal(len(testLimits().Routes) + 1))
}

func TestRateLimiterSetConfig(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestLimiter()

	rl.SetConfig("GET /custom", RateLimitEndpointConfig{
		Requests: 5,
		Window:   time.Minute,
		KeyFunc:  getUserID,
	})

	route, config := rl.lookup(http.MethodGet, "/custom")
	Expect(route).To(Equal("GET /custom"))
	Expect(config.Requests).To(Equal(5))
}

func TestRateLimitMiddleware_NoDoubleCounting(t *testing.T) {
	RegisterTestingT(t)
	router := newLimitedRouter(newTestLimiter(), "123")

	var mu sync.Mutex
	callCount := 0
	router.POST("/todos", func(c *gin.Context) {
		mu.Lock()
		callCount++
		mu.Unlock()
		c.Status(http.StatusCreated)
	})

	numRequests := 10
	results := make([]int, numRequests)
	var wg sync.WaitGroup

	for i := 0; i < numRequests; i++ {
		wg.Go(func() {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/todos", nil)
			router.ServeHTTP(w, req)

			remaining, _ := strconv.Atoi(w.Header().Get("X-RateLimit-Remaining"))
			results[i] = remaining
		})
	}

	wg.Wait()

	Expect(callCount).To(Equal(numRequests))

	sort.Ints(results)
	Expect(results).To(Equal([]int{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}))
}
