package port

import (
	"context"

	"lovemap/internal/core/domain"
	"lovemap/internal/core/model/request"
)

type AuthService interface {
	Registration(ctx context.Context, req *request.SignUpRequest) (*domain.User, error)
	Authenticate(ctx context.Context, req *request.LoginRequest) (*domain.User, error)
	CurrentUser(ctx context.Context, id int) (*domain.User, error)
}
