package service_test

import (
	"context"
	"strings"
	"testing"

	"lovemap/internal/adapter/database/repository"
	"lovemap/internal/core/domain"
	"lovemap/internal/core/service"
	"lovemap/pkg/db"
	. "lovemap/pkg/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ProfileServiceTestSuite struct {
	suite.Suite
	db      *db.DB
	service *service.ProfileService
}

func (s *ProfileServiceTestSuite) SetupTest() {
	s.db = InitTestDB()
	s.service = service.NewProfileService(repository.NewProfileRepository(s.db, nil))
}

func (s *ProfileServiceTestSuite) TearDownTest() {
	s.db.Close()
}

func TestProfileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceTestSuite))
}

func (s *ProfileServiceTestSuite) TestGet_Fresh() {
	profile, err := s.service.Get(context.Background())

	require.NoError(s.T(), err)
	assert.Empty(s.T(), profile.Nickname)
	assert.False(s.T(), profile.HasDisplayableImage())
}

func (s *ProfileServiceTestSuite) TestSaveNickname_DoesNotDropImage() {
	ctx := context.Background()
	_, err := s.service.SaveImageURI(ctx, "content://photos/1")
	require.NoError(s.T(), err)

	profile, err := s.service.SaveNickname(ctx, "  honey  ")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), "honey", profile.Nickname)
	assert.Equal(s.T(), "content://photos/1", profile.ImageURI)
	assert.True(s.T(), profile.HasDisplayableImage())
}

func (s *ProfileServiceTestSuite) TestSaveNickname_TooLong() {
	_, err := s.service.SaveNickname(context.Background(), strings.Repeat("가", 101))

	assert.ErrorIs(s.T(), err, domain.ErrInvalidRecord)
}

func (s *ProfileServiceTestSuite) TestSave_ImageOnlyWhenGiven() {
	ctx := context.Background()
	image := "file:///avatar.png"

	profile, err := s.service.Save(ctx, "first", &image)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), image, profile.ImageURI)

	profile, err = s.service.Save(ctx, "second", nil)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "second", profile.Nickname)
	assert.Equal(s.T(), image, profile.ImageURI)
}
