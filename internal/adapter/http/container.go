package http

import (
	"lovemap/internal/adapter/http/handler"
	"lovemap/internal/app"
	"lovemap/pkg/logger"
)

type Container struct {
	AuthHandler    *handler.AuthHandler
	TodoHandler    *handler.TodoHandler
	PostHandler    *handler.PostHandler
	ProfileHandler *handler.ProfileHandler
	HealthHandler  *handler.HealthHandler
}

func NewContainer(a *app.App, log *logger.LokiLogger) *Container {
	return &Container{
		AuthHandler:    handler.NewAuthHandler(a.AuthService, a.JWT),
		TodoHandler:    handler.NewTodoHandler(a.TodoService, log),
		PostHandler:    handler.NewPostHandler(a.PostService),
		ProfileHandler: handler.NewProfileHandler(a.ProfileService, a.AuthService),
		HealthHandler:  handler.NewHealthHandler(a.DB),
	}
}
