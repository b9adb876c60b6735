package http

import (
	"lovemap/internal/adapter/http/middleware"
	"lovemap/internal/app"
	"lovemap/pkg/auth"
	"lovemap/pkg/logger"
	"lovemap/pkg/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRouter(a *app.App, log *logger.LokiLogger) *gin.Engine {
	if a.Config.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	container := NewContainer(a, log)
	router := gin.New()

	router.Use(middleware.CurrentMiddleware())
	middlewares.SetupGinMiddleware(router, a.Config, a.Telemetry.AppMetrics, log)

	rateLimit := middlewares.RateLimitMiddleware(a.Config.RateLimit, log, a.Telemetry.AppMetrics)

	setupPublicRoutes(router, container, rateLimit)
	setupProtectedRoutes(router, container, a.JWT, rateLimit)

	return router
}

func setupPublicRoutes(router *gin.Engine, c *Container, rateLimit gin.HandlerFunc) {
	router.GET("/healthz", c.HealthHandler.Health)

	public := router.Group("/")
	public.Use(rateLimit)
	{
		public.POST("/signup", c.AuthHandler.RegisterByEmailAndPassword)
		public.POST("/auth", c.AuthHandler.AuthByEmailAndPassword)
	}
}

func setupProtectedRoutes(router *gin.Engine, c *Container, jwt *auth.JWT, rateLimit gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(auth.GinJwtMiddleware(jwt))
	protected.Use(middleware.CurrentUser())
	protected.Use(rateLimit)
	{
		protected.GET("/todos", c.TodoHandler.GetAllTodos)
		protected.POST("/todos", c.TodoHandler.CreateTodo)
		protected.GET("/todos/:id", c.TodoHandler.GetTodo)
		protected.PUT("/todos/:id", c.TodoHandler.SaveTodo)
		protected.PUT("/todos/:id/done", c.TodoHandler.SetDone)
		protected.PUT("/todos/:id/location", c.TodoHandler.Relocate)
		protected.DELETE("/todos/:id", c.TodoHandler.DeleteTodo)

		protected.GET("/posts", c.PostHandler.GetAllPosts)
		protected.POST("/posts", c.PostHandler.CreatePost)
		protected.GET("/posts/:id", c.PostHandler.GetPost)
		protected.PUT("/posts/:id", c.PostHandler.UpdatePost)
		protected.DELETE("/posts/:id", c.PostHandler.DeletePost)

		protected.GET("/profile", c.ProfileHandler.GetProfile)
		protected.PUT("/profile", c.ProfileHandler.SaveProfile)
		protected.PUT("/profile/nickname", c.ProfileHandler.SaveNickname)
		protected.PUT("/profile/image", c.ProfileHandler.SaveImage)
	}
}
