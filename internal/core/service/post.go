package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"lovemap/internal/core/domain"
	"lovemap/internal/core/model/response"
	"lovemap/internal/core/port"
	tel "lovemap/internal/core/telemetry"
	"lovemap/pkg/db/cursor"
)

const (
	postCachePrefix    = "posts:"
	postListKey        = postCachePrefix + "all:"
	postListVersionKey = "post_list_version"
	postListVersionTTL = 24 * time.Hour

	DefaultPageSize = 10
	MaxPageSize     = 100
)

type PostService struct {
	repo      port.PostRepository
	cache     port.CacheRepository
	cacheTTL  time.Duration
	cursors   *cursor.Codec
	telemetry port.Telemetry
	now       func() time.Time
}

type PostOption func(*PostService)

// WithPostCache serves full listings from cache until the next write.
func WithPostCache(cache port.CacheRepository, ttl time.Duration) PostOption {
	return func(ps *PostService) {
		ps.cache = cache
		ps.cacheTTL = ttl
	}
}

func WithPostTelemetry(telemetry port.Telemetry) PostOption {
	return func(ps *PostService) {
		if telemetry != nil {
			ps.telemetry = telemetry
		}
	}
}

func WithClock(now func() time.Time) PostOption {
	return func(ps *PostService) {
		ps.now = now
	}
}

func NewPostService(repo port.PostRepository, cursors *cursor.Codec, opts ...PostOption) *PostService {
	ps := &PostService{
		repo:      repo,
		cursors:   cursors,
		telemetry: tel.NewNoOpProbe(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(ps)
	}

	return ps
}

// List serves the full list from cache when warm. A list read while a write
// was in flight is returned but never cached.
func (ps *PostService) List(ctx context.Context) ([]domain.Post, error) {
	version := ps.listVersion(ctx)

	if posts, ok := ps.cachedList(ctx, version); ok {
		return posts, nil
	}

	posts, err := ps.repo.GetAll(ctx)

	if err != nil {
		return nil, err
	}

	if ps.listVersion(ctx) == version {
		ps.storeList(ctx, version, posts)
	}

	return posts, nil
}

func (ps *PostService) ListPage(ctx context.Context, limit int, token string) (*response.CursorResponse, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	var after *cursor.Data

	if token != "" {
		decoded, err := ps.cursors.Decode(token)

		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
		}

		after = &decoded
	}

	posts, hasNext, err := ps.repo.GetAllWithCursor(ctx, limit, after)

	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(response.NewPostListResponse(posts))

	if err != nil {
		return nil, err
	}

	page := response.CursorResponse{
		Size: len(posts),
		Data: data,
	}

	if hasNext && len(posts) > 0 {
		last := posts[len(posts)-1]
		page.Pagination.HasNext = true
		page.Pagination.NextCursor = ps.cursors.Encode(last.Timestamp, last.ID)
	}

	return &page, nil
}

func (ps *PostService) Get(ctx context.Context, id int64) (domain.Post, error) {
	return ps.repo.GetByID(ctx, id)
}

func (ps *PostService) Create(ctx context.Context, post domain.Post) (domain.Post, error) {
	ctx, span := ps.telemetry.StartServiceSpan(ctx, "post", "Create", nil)
	defer span.End()

	post.ID = 0
	post.Stamp(ps.now())

	if err := validatePost(&post); err != nil {
		return domain.Post{}, err
	}

	saved, err := ps.repo.Create(ctx, post)

	if err != nil {
		span.RecordError(err)
		slog.Error("Repository create failed", "error", err, "title", post.Title)
		return domain.Post{}, err
	}

	ps.invalidate(ctx)

	ps.telemetry.RecordBusinessEvent(ctx, "created", "post", strconv.FormatInt(saved.ID, 10), map[string]interface{}{
		"title":     saved.Title,
		"has_image": saved.ImageURI != nil,
	})

	return saved, nil
}

// Update replaces the editable fields and keeps the stored creation timestamp.
func (ps *PostService) Update(ctx context.Context, post domain.Post) (domain.Post, error) {
	existing, err := ps.repo.GetByID(ctx, post.ID)

	if err != nil {
		return domain.Post{}, err
	}

	post.Timestamp = existing.Timestamp

	if err := validatePost(&post); err != nil {
		return domain.Post{}, err
	}

	saved, err := ps.repo.Update(ctx, post)

	if err != nil {
		return domain.Post{}, err
	}

	ps.invalidate(ctx)

	ps.telemetry.RecordBusinessEvent(ctx, "updated", "post", strconv.FormatInt(saved.ID, 10), nil)

	return saved, nil
}

func (ps *PostService) Delete(ctx context.Context, id int64) error {
	if err := ps.repo.Delete(ctx, id); err != nil {
		return err
	}

	ps.invalidate(ctx)

	ps.telemetry.RecordBusinessEvent(ctx, "deleted", "post", strconv.FormatInt(id, 10), nil)

	return nil
}

func validatePost(post *domain.Post) error {
	post.Normalize()

	if post.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidRecord)
	}

	if post.Content == "" {
		return fmt.Errorf("%w: content is required", domain.ErrInvalidRecord)
	}

	if post.Location != nil {
		return post.Location.Validate()
	}

	return nil
}

// listVersion lives outside postCachePrefix so invalidation does not erase it.
// Every instance sharing the cache sees the same version.
func (ps *PostService) listVersion(ctx context.Context) string {
	if ps.cache == nil {
		return ""
	}

	raw, err := ps.cache.Get(ctx, postListVersionKey)

	if err != nil {
		if !errors.Is(err, port.ErrCacheMiss) {
			slog.Warn("Post cache version read failed", "error", err)
		}

		return ""
	}

	return string(raw)
}

func (ps *PostService) cachedList(ctx context.Context, version string) ([]domain.Post, bool) {
	if ps.cache == nil {
		return nil, false
	}

	raw, err := ps.cache.Get(ctx, postListKey+version)

	if err != nil {
		if !errors.Is(err, port.ErrCacheMiss) {
			slog.Warn("Post cache read failed", "error", err)
		}

		return nil, false
	}

	var posts []domain.Post

	if err := json.Unmarshal(raw, &posts); err != nil {
		slog.Warn("Post cache entry unreadable", "error", err)
		return nil, false
	}

	return posts, true
}

func (ps *PostService) storeList(ctx context.Context, version string, posts []domain.Post) {
	if ps.cache == nil {
		return
	}

	raw, err := json.Marshal(posts)

	if err != nil {
		return
	}

	if err := ps.cache.Set(ctx, postListKey+version, raw, ps.cacheTTL); err != nil {
		slog.Warn("Post cache write failed", "error", err)
	}
}

// invalidate bumps the list version before dropping cached lists, so a read
// that began before this write cannot store its result afterwards.
func (ps *PostService) invalidate(ctx context.Context) {
	if ps.cache == nil {
		return
	}

	if err := ps.cache.Set(ctx, postListVersionKey, []byte(uuid.NewString()), postListVersionTTL); err != nil {
		slog.Warn("Post cache version bump failed", "error", err)
	}

	if err := ps.cache.DeleteByPrefix(ctx, postCachePrefix); err != nil {
		slog.Warn("Post cache invalidation failed", "error", err)
	}
}
