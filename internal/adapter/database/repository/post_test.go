package repository_test

import (
	"context"
	"testing"

	"lovemap/internal/adapter/database/repository"
	"lovemap/internal/core/domain"
	"lovemap/internal/core/port"
	"lovemap/pkg/db"
	"lovemap/pkg/db/cursor"
	. "lovemap/pkg/test"
	"lovemap/pkg/test/factory"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type PostRepositoryTestSuite struct {
	suite.Suite
	db   *db.DB
	repo port.PostRepository
}

func (s *PostRepositoryTestSuite) SetupTest() {
	s.db = InitTestDB()
	s.repo = repository.NewPostRepository(s.db, nil)
}

func (s *PostRepositoryTestSuite) TearDownTest() {
	s.db.Close()
}

func TestPostRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(PostRepositoryTestSuite))
}

func (s *PostRepositoryTestSuite) seed(timestamps ...int64) []domain.Post {
	posts := make([]domain.Post, 0, len(timestamps))
	for _, ts := range timestamps {
		post, err := s.repo.Create(context.Background(), factory.NewPost(map[string]any{"Timestamp": ts}))
		Expect(err).To(BeNil())
		posts = append(posts, post)
	}
	return posts
}

func (s *PostRepositoryTestSuite) TestCreate_AssignsID() {
	image := "content://media/1"
	post := factory.NewPost(map[string]any{
		"Title":    "Picnic",
		"ImageURI": &image,
		"Location": &domain.Location{Latitude: 35.1, Longitude: 129.0},
	})

	saved, err := s.repo.Create(context.Background(), post)

	Expect(err).To(BeNil())
	Expect(saved.ID).To(BeNumerically(">", 0))
	Expect(saved.Title).To(Equal("Picnic"))
	Expect(*saved.ImageURI).To(Equal(image))
	Expect(saved.Location).To(Equal(&domain.Location{Latitude: 35.1, Longitude: 129.0}))
	Expect(saved.Timestamp).To(Equal(post.Timestamp))
}

func (s *PostRepositoryTestSuite) TestCreate_WithoutImageOrLocation() {
	saved, err := s.repo.Create(context.Background(), factory.NewPost())

	Expect(err).To(BeNil())
	Expect(saved.ImageURI).To(BeNil())
	Expect(saved.Location).To(BeNil())
}

func (s *PostRepositoryTestSuite) TestGetAll_NewestFirst() {
	s.seed(100, 300, 200)

	posts, err := s.repo.GetAll(context.Background())

	Expect(err).To(BeNil())
	Expect(posts).To(HaveLen(3))
	Expect(posts[0].Timestamp).To(Equal(int64(300)))
	Expect(posts[1].Timestamp).To(Equal(int64(200)))
	Expect(posts[2].Timestamp).To(Equal(int64(100)))
}

func (s *PostRepositoryTestSuite) TestGetAll_SameTimestampBreaksTiesByID() {
	seeded := s.seed(100, 100)

	posts, err := s.repo.GetAll(context.Background())

	Expect(err).To(BeNil())
	Expect(posts[0].ID).To(Equal(seeded[1].ID))
	Expect(posts[1].ID).To(Equal(seeded[0].ID))
}

func (s *PostRepositoryTestSuite) TestGetAllWithCursor_WalksEveryPage() {
	s.seed(1, 2, 3, 4, 5)
	ctx := context.Background()

	page, hasNext, err := s.repo.GetAllWithCursor(ctx, 2, nil)
	Expect(err).To(BeNil())
	Expect(hasNext).To(BeTrue())
	Expect(page).To(HaveLen(2))
	Expect(page[0].Timestamp).To(Equal(int64(5)))

	last := page[len(page)-1]
	page, hasNext, err = s.repo.GetAllWithCursor(ctx, 2, &cursor.Data{Timestamp: last.Timestamp, ID: last.ID})
	Expect(err).To(BeNil())
	Expect(hasNext).To(BeTrue())
	Expect(page[0].Timestamp).To(Equal(int64(3)))

	last = page[len(page)-1]
	page, hasNext, err = s.repo.GetAllWithCursor(ctx, 2, &cursor.Data{Timestamp: last.Timestamp, ID: last.ID})
	Expect(err).To(BeNil())
	Expect(hasNext).To(BeFalse())
	Expect(page).To(HaveLen(1))
	Expect(page[0].Timestamp).To(Equal(int64(1)))
}

func (s *PostRepositoryTestSuite) TestUpdate() {
	ctx := context.Background()
	post := s.seed(42)[0]

	post.Title = "Edited"
	post.Location = &domain.Location{Latitude: 1, Longitude: 2}

	updated, err := s.repo.Update(ctx, post)

	Expect(err).To(BeNil())
	Expect(updated.Title).To(Equal("Edited"))
	Expect(updated.Timestamp).To(Equal(int64(42)))
	Expect(updated.Location).To(Equal(&domain.Location{Latitude: 1, Longitude: 2}))
}

func (s *PostRepositoryTestSuite) TestUpdate_NotFound() {
	post := factory.NewPost(map[string]any{"ID": int64(999)})

	_, err := s.repo.Update(context.Background(), post)

	Expect(err).To(MatchError(domain.ErrNotFound))
}

func (s *PostRepositoryTestSuite) TestDelete() {
	ctx := context.Background()
	post := s.seed(7)[0]

	Expect(s.repo.Delete(ctx, post.ID)).To(Succeed())

	_, err := s.repo.GetByID(ctx, post.ID)
	Expect(err).To(MatchError(domain.ErrNotFound))
	Expect(s.repo.Delete(ctx, post.ID)).To(MatchError(domain.ErrNotFound))
}
