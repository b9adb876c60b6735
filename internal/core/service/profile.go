package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"lovemap/internal/core/domain"
	"lovemap/internal/core/port"
)

const maxNicknameLength = 100

type ProfileService struct {
	repo port.ProfileRepository
}

func NewProfileService(repo port.ProfileRepository) *ProfileService {
	return &ProfileService{repo}
}

func (ps *ProfileService) Get(ctx context.Context) (domain.Profile, error) {
	return ps.repo.Get(ctx)
}

func (ps *ProfileService) SaveNickname(ctx context.Context, nickname string) (domain.Profile, error) {
	nickname, err := cleanNickname(nickname)

	if err != nil {
		return domain.Profile{}, err
	}

	if err := ps.repo.SaveNickname(ctx, nickname); err != nil {
		return domain.Profile{}, err
	}

	return ps.repo.Get(ctx)
}

func (ps *ProfileService) SaveImageURI(ctx context.Context, uri string) (domain.Profile, error) {
	if err := ps.repo.SaveImageURI(ctx, strings.TrimSpace(uri)); err != nil {
		return domain.Profile{}, err
	}

	return ps.repo.Get(ctx)
}

// Save always stores the nickname and only replaces the image when one is given.
func (ps *ProfileService) Save(ctx context.Context, nickname string, imageURI *string) (domain.Profile, error) {
	nickname, err := cleanNickname(nickname)

	if err != nil {
		return domain.Profile{}, err
	}

	if imageURI != nil {
		trimmed := strings.TrimSpace(*imageURI)
		imageURI = &trimmed
	}

	if err := ps.repo.Save(ctx, nickname, imageURI); err != nil {
		return domain.Profile{}, err
	}

	return ps.repo.Get(ctx)
}

func cleanNickname(nickname string) (string, error) {
	nickname = strings.TrimSpace(nickname)

	if utf8.RuneCountInString(nickname) > maxNicknameLength {
		return "", fmt.Errorf("%w: nickname longer than %d characters", domain.ErrInvalidRecord, maxNicknameLength)
	}

	return nickname, nil
}
