package port

import (
	"context"

	"lovemap/internal/core/domain"
)

type ProfileRepository interface {
	Get(ctx context.Context) (domain.Profile, error)
	SaveNickname(ctx context.Context, nickname string) error
	SaveImageURI(ctx context.Context, uri string) error
	Save(ctx context.Context, nickname string, imageURI *string) error
}

type ProfileService interface {
	Get(ctx context.Context) (domain.Profile, error)
	SaveNickname(ctx context.Context, nickname string) (domain.Profile, error)
	SaveImageURI(ctx context.Context, uri string) (domain.Profile, error)
	Save(ctx context.Context, nickname string, imageURI *string) (domain.Profile, error)
}
