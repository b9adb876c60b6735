package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lovemap/pkg/auth"
	ct "lovemap/pkg/context"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestCurrentMiddleware(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	var seen *ct.Current

	router := gin.New()
	router.Use(CurrentMiddleware())
	router.Use(func(c *gin.Context) {
		c.Set(auth.UserIDKey, 42)
		c.Next()
	})
	router.Use(CurrentUser())
	router.GET("/profile", func(c *gin.Context) {
		seen, _ = ct.FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("generates a request id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/profile", nil))

		Expect(seen).NotTo(BeNil())
		Expect(seen.RequestID()).NotTo(BeEmpty())
		Expect(rr.Header().Get(RequestIDHeader)).To(Equal(seen.RequestID()))

		userID, ok := seen.UserID()
		Expect(ok).To(BeTrue())
		Expect(userID).To(Equal(42))
	})

	t.Run("keeps the caller's request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set(RequestIDHeader, "abc-123")

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		Expect(seen.RequestID()).To(Equal("abc-123"))
	})
}
