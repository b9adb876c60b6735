package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	. "lovemap/pkg/test"

	"lovemap/internal/adapter/cache"
	"lovemap/internal/adapter/database/repository"
	"lovemap/internal/core/domain"
	"lovemap/internal/core/port"
	"lovemap/internal/core/service"
	"lovemap/pkg/auth"
	"lovemap/pkg/db"
	"lovemap/pkg/db/cursor"
	factory "lovemap/pkg/test/factory"
)

var ctx = context.Background()

type testApp struct {
	DB       *db.DB
	JWT      *auth.JWT
	UserRepo port.UserRepository
	TodoRepo port.TodoRepository
	PostRepo port.PostRepository
	Router   *gin.Engine
}

func newTestApp() *testApp {
	gin.SetMode(gin.TestMode)

	conn := InitTestDB()
	app := &testApp{
		DB:       conn,
		JWT:      auth.NewJWT("handler-test-secret-key", time.Hour),
		UserRepo: repository.NewUserRepository(conn, nil),
		TodoRepo: repository.NewTodoRepository(conn, nil),
		PostRepo: repository.NewPostRepository(conn, nil),
	}

	authService := service.NewAuthService(app.UserRepo)
	todoService := service.NewTodoService(app.TodoRepo)
	postService := service.NewPostService(app.PostRepo, cursor.New("handler-test-cursor"),
		service.WithPostCache(cache.NewMemoryRepository(time.Minute), time.Minute))
	profileService := service.NewProfileService(repository.NewProfileRepository(conn, nil))

	app.Router = setupTestRouter(
		NewAuthHandler(authService, app.JWT),
		NewTodoHandler(todoService, nil),
		NewPostHandler(postService),
		NewProfileHandler(profileService, authService),
		NewHealthHandler(conn),
		app.JWT,
	)

	return app
}

func setupTestRouter(authHandler *AuthHandler, todoHandler *TodoHandler, postHandler *PostHandler, profileHandler *ProfileHandler, healthHandler *HealthHandler, jwt *auth.JWT) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	public := router.Group("/")
	{
		public.POST("/signup", authHandler.RegisterByEmailAndPassword)
		public.POST("/auth", authHandler.AuthByEmailAndPassword)
		public.GET("/healthz", healthHandler.Health)
	}

	protected := router.Group("/")
	protected.Use(auth.GinJwtMiddleware(jwt))
	{
		protected.GET("/todos", todoHandler.GetAllTodos)
		protected.POST("/todos", todoHandler.CreateTodo)
		protected.GET("/todos/:id", todoHandler.GetTodo)
		protected.PUT("/todos/:id", todoHandler.SaveTodo)
		protected.PUT("/todos/:id/done", todoHandler.SetDone)
		protected.PUT("/todos/:id/location", todoHandler.Relocate)
		protected.DELETE("/todos/:id", todoHandler.DeleteTodo)

		protected.GET("/posts", postHandler.GetAllPosts)
		protected.POST("/posts", postHandler.CreatePost)
		protected.GET("/posts/:id", postHandler.GetPost)
		protected.PUT("/posts/:id", postHandler.UpdatePost)
		protected.DELETE("/posts/:id", postHandler.DeletePost)

		protected.GET("/profile", profileHandler.GetProfile)
		protected.PUT("/profile", profileHandler.SaveProfile)
		protected.PUT("/profile/nickname", profileHandler.SaveNickname)
		protected.PUT("/profile/image", profileHandler.SaveImage)
	}

	return router
}

func (a *testApp) Close() {
	a.DB.Close()
}

func (a *testApp) createUser(email string) domain.User {
	user, err := a.UserRepo.Create(ctx, factory.NewUser[domain.User](map[string]any{
		"ID":    0,
		"Email": email,
	}))
	if err != nil {
		panic(err)
	}

	return user
}

func (a *testApp) do(method, path, body string, userID int) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if userID > 0 {
		token, _ := a.JWT.CreateToken(userID)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)

	return rr
}

// decode unwraps the {"data": ...} envelope into T.
func decode[T any](rr *httptest.ResponseRecorder) T {
	envelope := struct {
		Data T `json:"data"`
	}{}

	_ = json.Unmarshal(rr.Body.Bytes(), &envelope)

	return envelope.Data
}

