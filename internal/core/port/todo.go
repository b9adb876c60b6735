package port

import (
	"context"

	"lovemap/internal/core/domain"
)

type TodoRepository interface {
	GetAll(ctx context.Context) ([]domain.Todo, error)
	GetByID(ctx context.Context, id string) (domain.Todo, error)
	Upsert(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Delete(ctx context.Context, id string) error
}

type TodoService interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Get(ctx context.Context, id string) (domain.Todo, error)
	Create(ctx context.Context, title string, location *domain.Location) (domain.Todo, error)
	Save(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	SetDone(ctx context.Context, id string, done bool) (domain.Todo, error)
	Relocate(ctx context.Context, id string, location *domain.Location) (domain.Todo, error)
	Delete(ctx context.Context, id string) error
}
