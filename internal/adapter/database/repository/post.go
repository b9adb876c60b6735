package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"lovemap/internal/core/domain"
	"lovemap/internal/core/port"
	"lovemap/pkg/db"
	"lovemap/pkg/db/cursor"
)

const (
	postEntity = "post"
	postTable  = "posts"
)

var postColumns = []string{"id", "title", "content", "image_uri", "lat", "lng", "timestamp"}

type postRow struct {
	ID        int64    `db:"id"`
	Title     string   `db:"title"`
	Content   string   `db:"content"`
	ImageURI  *string  `db:"image_uri"`
	Lat       *float64 `db:"lat"`
	Lng       *float64 `db:"lng"`
	Timestamp int64    `db:"timestamp"`
}

func (r postRow) toDomain() domain.Post {
	return domain.Post{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		ImageURI:  r.ImageURI,
		Location:  domain.LocationFrom(r.Lat, r.Lng),
		Timestamp: r.Timestamp,
	}
}

type PostRepository struct {
	db        *db.DB
	scanner   *db.Scanner
	telemetry port.Telemetry
}

func NewPostRepository(conn *db.DB, telemetry port.Telemetry) port.PostRepository {
	return &PostRepository{
		db:        conn,
		scanner:   db.NewScanner(),
		telemetry: withTelemetry(telemetry),
	}
}

func (pr *PostRepository) newest() sq.SelectBuilder {
	return pr.db.QueryBuilder.Select(postColumns...).
		From(postTable).
		OrderBy("timestamp DESC", "id DESC")
}

func (pr *PostRepository) GetAll(ctx context.Context) ([]domain.Post, error) {
	ctx, obs := observe(ctx, pr.telemetry, pr.db, "GetAll", postEntity, postTable, nil)

	posts, err := pr.list(ctx, obs, pr.newest())
	if err != nil {
		return nil, obs.fail(err)
	}

	obs.done(map[string]interface{}{"db.rows_returned": len(posts)})

	return posts, nil
}

// GetAllWithCursor returns up to limit posts strictly after the cursor position
// in newest-first order, and whether more remain.
func (pr *PostRepository) GetAllWithCursor(ctx context.Context, limit int, after *cursor.Data) ([]domain.Post, bool, error) {
	attrs := map[string]interface{}{
		"pagination.limit":      limit,
		"pagination.has_cursor": after != nil,
	}
	ctx, obs := observe(ctx, pr.telemetry, pr.db, "GetAllWithCursor", postEntity, postTable, attrs)

	actualLimit := limit + 1
	query := pr.newest().Limit(uint64(actualLimit))

	if after != nil {
		query = query.Where(sq.Or{
			sq.Lt{"timestamp": after.Timestamp},
			sq.And{
				sq.Eq{"timestamp": after.Timestamp},
				sq.Lt{"id": after.ID},
			},
		})
	}

	posts, err := pr.list(ctx, obs, query)
	if err != nil {
		return nil, false, obs.fail(err)
	}

	hasNext := len(posts) == actualLimit
	if hasNext {
		posts = posts[:limit]
	}

	obs.done(map[string]interface{}{
		"db.rows_returned": len(posts),
		"db.has_next":      hasNext,
	})

	return posts, hasNext, nil
}

func (pr *PostRepository) list(ctx context.Context, obs *observation, builder sq.SelectBuilder) ([]domain.Post, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	obs.query(query, args)

	rows, err := pr.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []postRow
	if err := pr.scanner.ScanRows(rows, &records); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(records))
	for _, record := range records {
		posts = append(posts, record.toDomain())
	}

	return posts, nil
}

func (pr *PostRepository) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	ctx, obs := observe(ctx, pr.telemetry, pr.db, "GetByID", postEntity, postTable, map[string]interface{}{
		"post.id": id,
	})

	query, args, err := pr.db.QueryBuilder.Select(postColumns...).
		From(postTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Post{}, obs.fail(err)
	}

	obs.query(query, args)

	rows, err := pr.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Post{}, obs.fail(err)
	}
	defer rows.Close()

	var record postRow
	if err := pr.scanner.ScanRow(rows, &record); err != nil {
		return domain.Post{}, obs.fail(err)
	}

	obs.done(nil)

	return record.toDomain(), nil
}

func (pr *PostRepository) Create(ctx context.Context, post domain.Post) (domain.Post, error) {
	ctx, obs := observe(ctx, pr.telemetry, pr.db, "Create", postEntity, postTable, map[string]interface{}{
		"db.operation": "INSERT",
		"post.title":   post.Title,
	})

	values := post.ToMap()

	query, args, err := pr.db.QueryBuilder.Insert(postTable).
		SetMap(values).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.Post{}, obs.fail(err)
	}

	obs.query(query, args)

	var id int64
	if err := pr.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return domain.Post{}, obs.fail(err)
	}

	saved, err := pr.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, obs.fail(err)
	}

	obs.done(map[string]interface{}{"post.id": id})

	return saved, nil
}

func (pr *PostRepository) Update(ctx context.Context, post domain.Post) (domain.Post, error) {
	ctx, obs := observe(ctx, pr.telemetry, pr.db, "Update", postEntity, postTable, map[string]interface{}{
		"db.operation": "UPDATE",
		"post.id":      post.ID,
	})

	query, args, err := pr.db.QueryBuilder.Update(postTable).
		SetMap(post.ToMap()).
		Where(sq.Eq{"id": post.ID}).
		ToSql()
	if err != nil {
		return domain.Post{}, obs.fail(err)
	}

	obs.query(query, args)

	result, err := pr.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.Post{}, obs.fail(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Post{}, obs.fail(err)
	}

	if rowsAffected == 0 {
		return domain.Post{}, obs.fail(domain.ErrNotFound)
	}

	saved, err := pr.GetByID(ctx, post.ID)
	if err != nil {
		return domain.Post{}, obs.fail(err)
	}

	obs.done(map[string]interface{}{"db.rows_affected": rowsAffected})

	return saved, nil
}

func (pr *PostRepository) Delete(ctx context.Context, id int64) error {
	ctx, obs := observe(ctx, pr.telemetry, pr.db, "Delete", postEntity, postTable, map[string]interface{}{
		"db.operation": "DELETE",
		"post.id":      id,
	})

	query, args, err := pr.db.QueryBuilder.Delete(postTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return obs.fail(err)
	}

	obs.query(query, args)

	result, err := pr.db.ExecContext(ctx, query, args...)
	if err != nil {
		return obs.fail(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return obs.fail(err)
	}

	if rowsAffected == 0 {
		return obs.fail(domain.ErrNotFound)
	}

	obs.done(map[string]interface{}{"db.rows_affected": rowsAffected})

	return nil
}
