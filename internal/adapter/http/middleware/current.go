package middleware

import (
	"lovemap/pkg/auth"
	ct "lovemap/pkg/context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// CurrentMiddleware attaches a per-request Current to the request context and
// echoes the request id back to the client.
func CurrentMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		current := ct.NewCurrent()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		current.Set(ct.RequestIDKey, requestID)
		current.Set(ct.ClientIPKey, c.ClientIP())

		c.Request = c.Request.WithContext(ct.WithCurrent(c.Request.Context(), current))
		c.Set("current", current)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// CurrentUser copies the authenticated user id into Current. Mount it after the JWT middleware.
func CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetInt(auth.UserIDKey); userID > 0 {
			GetCurrent(c).Set(ct.UserIDKey, userID)
		}

		c.Next()
	}
}

func GetCurrent(c *gin.Context) *ct.Current {
	if current, ok := c.Get("current"); ok {
		if curr, ok := current.(*ct.Current); ok {
			return curr
		}
	}

	return ct.GetCurrent(c.Request.Context())
}
