package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lovemap/internal/core/domain"
	"lovemap/internal/core/port"
	tel "lovemap/internal/core/telemetry"
)

type TodoService struct {
	repo            port.TodoRepository
	telemetry       port.Telemetry
	defaultLocation *domain.Location
}

type TodoOption func(*TodoService)

// WithDefaultLocation sets the coordinate attached to todos created without one.
// A nil location leaves new todos unlocated.
func WithDefaultLocation(location *domain.Location) TodoOption {
	return func(ts *TodoService) {
		ts.defaultLocation = location
	}
}

func WithTodoTelemetry(telemetry port.Telemetry) TodoOption {
	return func(ts *TodoService) {
		if telemetry != nil {
			ts.telemetry = telemetry
		}
	}
}

func NewTodoService(repo port.TodoRepository, opts ...TodoOption) *TodoService {
	location := domain.DefaultLocation

	ts := &TodoService{
		repo:            repo,
		telemetry:       tel.NewNoOpProbe(),
		defaultLocation: &location,
	}

	for _, opt := range opts {
		opt(ts)
	}

	return ts
}

func (ts *TodoService) List(ctx context.Context) ([]domain.Todo, error) {
	return ts.repo.GetAll(ctx)
}

func (ts *TodoService) Get(ctx context.Context, id string) (domain.Todo, error) {
	return ts.repo.GetByID(ctx, id)
}

func (ts *TodoService) Create(ctx context.Context, title string, location *domain.Location) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "Create", nil)
	defer span.End()

	if location == nil && ts.defaultLocation != nil {
		fallback := *ts.defaultLocation
		location = &fallback
	}

	todo := domain.Todo{
		ID:       domain.NewTodoID(),
		Title:    title,
		Done:     false,
		Location: location,
	}

	saved, err := ts.save(ctx, todo)

	if err != nil {
		span.RecordError(err)
		slog.Error("Repository create failed", "error", err, "title", todo.Title)
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "created", "todo", saved.ID, map[string]interface{}{
		"title":        saved.Title,
		"has_location": saved.HasLocation(),
	})

	return saved, nil
}

func (ts *TodoService) Save(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	if todo.ID == "" {
		todo.ID = domain.NewTodoID()
	}

	return ts.save(ctx, todo)
}

func (ts *TodoService) SetDone(ctx context.Context, id string, done bool) (domain.Todo, error) {
	todo, err := ts.repo.GetByID(ctx, id)

	if err != nil {
		return domain.Todo{}, err
	}

	todo.Toggle(done)

	saved, err := ts.save(ctx, todo)

	if err != nil {
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "toggled", "todo", saved.ID, map[string]interface{}{
		"done": saved.Done,
	})

	return saved, nil
}

func (ts *TodoService) Relocate(ctx context.Context, id string, location *domain.Location) (domain.Todo, error) {
	todo, err := ts.repo.GetByID(ctx, id)

	if err != nil {
		return domain.Todo{}, err
	}

	todo.Relocate(location)

	saved, err := ts.save(ctx, todo)

	if err != nil {
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "relocated", "todo", saved.ID, map[string]interface{}{
		"has_location": saved.HasLocation(),
		"recorded_at":  time.Now().UTC().Format(time.RFC3339),
	})

	return saved, nil
}

func (ts *TodoService) Delete(ctx context.Context, id string) error {
	if err := ts.repo.Delete(ctx, id); err != nil {
		return err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "deleted", "todo", id, nil)

	return nil
}

func (ts *TodoService) save(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	todo.Normalize()

	if todo.Title == "" {
		return domain.Todo{}, fmt.Errorf("%w: title is required", domain.ErrInvalidRecord)
	}

	if todo.Location != nil {
		if err := todo.Location.Validate(); err != nil {
			return domain.Todo{}, err
		}
	}

	return ts.repo.Upsert(ctx, todo)
}
