package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lovemap/internal/core/domain"
	"lovemap/internal/core/model/request"
	"lovemap/internal/core/port"
	"lovemap/internal/core/util"
)

type AuthService struct {
	repo port.UserRepository
}

func NewAuthService(repo port.UserRepository) *AuthService {
	return &AuthService{repo}
}

func (as *AuthService) Registration(ctx context.Context, req *request.SignUpRequest) (*domain.User, error) {
	email := domain.NormalizeEmail(req.Email)

	_, err := as.repo.GetByEmail(ctx, email)

	if err == nil {
		return nil, fmt.Errorf("user %s: %w", email, domain.ErrAlreadyExists)
	}

	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	encrypted, err := util.HashPassword(req.Password)

	if errors.Is(err, domain.ErrInvalidRecord) {
		return nil, err
	}

	if err != nil {
		return nil, fmt.Errorf("error creating encrypted password: %w", err)
	}

	now := time.Now().UTC()

	user := domain.User{
		UUID:              uuid.New(),
		Email:             email,
		EncryptedPassword: encrypted,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	savedUser, err := as.repo.Create(ctx, user)

	if err != nil {
		return nil, err
	}

	return &savedUser, nil
}

func (as *AuthService) Authenticate(ctx context.Context, req *request.LoginRequest) (*domain.User, error) {
	user, err := as.repo.GetByEmail(ctx, domain.NormalizeEmail(req.Email))

	if errors.Is(err, domain.ErrNotFound) {
		slog.Info("Auth#Authenticate", "get_by_email", err)
		return nil, domain.ErrInvalidCredentials
	}

	if err != nil {
		slog.Error("Auth#Authenticate", "get_by_email", err)
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := util.VerifyPassword(req.Password, user.EncryptedPassword); err != nil {
		slog.Error("Auth#Authenticate", "compare_password", err)
		return nil, domain.ErrInvalidCredentials
	}

	return &user, nil
}

func (as *AuthService) CurrentUser(ctx context.Context, id int) (*domain.User, error) {
	user, err := as.repo.GetByID(ctx, id)

	if err != nil {
		return nil, err
	}

	return &user, nil
}
