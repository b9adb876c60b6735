package port

import (
	"context"

	"lovemap/internal/core/domain"
	"lovemap/internal/core/model/response"
	"lovemap/pkg/db/cursor"
)

type PostRepository interface {
	GetAll(ctx context.Context) ([]domain.Post, error)
	GetAllWithCursor(ctx context.Context, limit int, after *cursor.Data) ([]domain.Post, bool, error)
	GetByID(ctx context.Context, id int64) (domain.Post, error)
	Create(ctx context.Context, post domain.Post) (domain.Post, error)
	Update(ctx context.Context, post domain.Post) (domain.Post, error)
	Delete(ctx context.Context, id int64) error
}

type PostService interface {
	List(ctx context.Context) ([]domain.Post, error)
	ListPage(ctx context.Context, limit int, cursor string) (*response.CursorResponse, error)
	Get(ctx context.Context, id int64) (domain.Post, error)
	Create(ctx context.Context, post domain.Post) (domain.Post, error)
	Update(ctx context.Context, post domain.Post) (domain.Post, error)
	Delete(ctx context.Context, id int64) error
}
