package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lovemap/internal/adapter/cache"
	"lovemap/internal/adapter/database"
	"lovemap/internal/adapter/database/repository"
	"lovemap/internal/adapter/telemetry"
	"lovemap/internal/core/domain"
	"lovemap/internal/core/port"
	"lovemap/internal/core/service"
	coretel "lovemap/internal/core/telemetry"
	"lovemap/pkg/auth"
	"lovemap/pkg/config"
	"lovemap/pkg/db"
	"lovemap/pkg/db/cursor"
)

// App holds the configured store, cache, telemetry and services shared by
// every delivery adapter.
type App struct {
	Config    *config.AppConfig
	DB        *db.DB
	Cache     port.CacheRepository
	Telemetry *telemetry.Container
	JWT       *auth.JWT

	AuthService    port.AuthService
	TodoService    port.TodoService
	PostService    port.PostService
	ProfileService port.ProfileService

	todos port.TodoRepository
	posts port.PostRepository
}

func New(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tel, err := telemetry.NewContainer(ctx, cfg.App, cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	conn, err := database.Open(cfg.Database)
	if err != nil {
		tel.Shutdown(ctx)
		return nil, fmt.Errorf("database: %w", err)
	}

	if err := tel.WatchDatabase(conn.DB, cfg.App.Name); err != nil {
		logger.Warn("Database stats not exported", "error", err)
	}

	store, err := cache.New(ctx, cfg.Cache, cfg.App.Name)
	if err != nil {
		conn.Close()
		tel.Shutdown(ctx)
		return nil, fmt.Errorf("cache: %w", err)
	}

	probe := tel.NewTelemetryProbe()

	a := &App{
		Config:    cfg,
		DB:        conn,
		Cache:     store,
		Telemetry: tel,
		JWT:       auth.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	}

	a.AuthService = service.NewAuthService(repository.NewUserRepository(conn, probe))
	a.todos = repository.NewTodoRepository(conn, probe)
	a.posts = repository.NewPostRepository(conn, probe)

	a.TodoService = service.NewTodoService(a.todos, todoOptions(cfg.Todo, probe)...)
	a.PostService = service.NewPostService(
		a.posts,
		cursor.New(cursorSecret(cfg.Auth)),
		a.postOptions(probe)...,
	)
	a.ProfileService = service.NewProfileService(repository.NewProfileRepository(conn, probe))

	return a, nil
}

func todoOptions(cfg config.TodoConfig, probe port.Telemetry) []service.TodoOption {
	var location *domain.Location

	if cfg.AttachDefaultLocation {
		location = &domain.Location{Latitude: cfg.DefaultLatitude, Longitude: cfg.DefaultLongitude}
	}

	return []service.TodoOption{
		service.WithDefaultLocation(location),
		service.WithTodoTelemetry(probe),
	}
}

func (a *App) postOptions(probe port.Telemetry) []service.PostOption {
	opts := []service.PostOption{service.WithPostTelemetry(probe)}

	if a.Cache != nil {
		instrumented := cache.Instrument(a.Cache, a.Telemetry.AppMetrics)
		opts = append(opts, service.WithPostCache(instrumented, a.Config.Cache.TTL))
	}

	return opts
}

// StoreCounts reads the repositories directly so sampling does not touch the post cache.
func (a *App) StoreCounts(ctx context.Context) (coretel.StoreCounts, error) {
	todos, err := a.todos.GetAll(ctx)
	if err != nil {
		return coretel.StoreCounts{}, err
	}

	posts, err := a.posts.GetAll(ctx)
	if err != nil {
		return coretel.StoreCounts{}, err
	}

	counts := coretel.StoreCounts{Todos: len(todos), Posts: len(posts)}
	for _, todo := range todos {
		if todo.Done {
			counts.TodosDone++
		}
	}

	return counts, nil
}

// cursorSecret falls back to the JWT secret so a single secret is enough to run.
func cursorSecret(cfg config.AuthConfig) string {
	if cfg.CursorSecret != "" {
		return cfg.CursorSecret
	}
	return cfg.JWTSecret
}

func (a *App) Close(ctx context.Context) error {
	var errs []error

	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}

	errs = append(errs, a.DB.Close())
	errs = append(errs, a.Telemetry.Shutdown(ctx))

	return errors.Join(errs...)
}
