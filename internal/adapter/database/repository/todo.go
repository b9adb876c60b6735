package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"lovemap/internal/core/domain"
	"lovemap/internal/core/port"
	"lovemap/pkg/db"
)

const (
	todoEntity = "todo"
	todoTable  = "todos"
)

var todoColumns = []string{"id", "title", "is_done", "latitude", "longitude"}

type todoRow struct {
	ID        string   `db:"id"`
	Title     string   `db:"title"`
	IsDone    bool     `db:"is_done"`
	Latitude  *float64 `db:"latitude"`
	Longitude *float64 `db:"longitude"`
}

func (r todoRow) toDomain() domain.Todo {
	return domain.Todo{
		ID:       r.ID,
		Title:    r.Title,
		Done:     r.IsDone,
		Location: domain.LocationFrom(r.Latitude, r.Longitude),
	}
}

type TodoRepository struct {
	db        *db.DB
	scanner   *db.Scanner
	telemetry port.Telemetry
}

func NewTodoRepository(conn *db.DB, telemetry port.Telemetry) port.TodoRepository {
	return &TodoRepository{
		db:        conn,
		scanner:   db.NewScanner(),
		telemetry: withTelemetry(telemetry),
	}
}

// GetAll returns todos oldest first. Ids are time-ordered so id order is insertion order.
func (tr *TodoRepository) GetAll(ctx context.Context) ([]domain.Todo, error) {
	ctx, obs := observe(ctx, tr.telemetry, tr.db, "GetAll", todoEntity, todoTable, nil)

	query, args, err := tr.db.QueryBuilder.Select(todoColumns...).
		From(todoTable).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, obs.fail(err)
	}

	obs.query(query, args)

	rows, err := tr.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, obs.fail(err)
	}
	defer rows.Close()

	var records []todoRow
	if err := tr.scanner.ScanRows(rows, &records); err != nil {
		return nil, obs.fail(err)
	}

	todos := make([]domain.Todo, 0, len(records))
	for _, record := range records {
		todos = append(todos, record.toDomain())
	}

	obs.done(map[string]interface{}{"db.rows_returned": len(todos)})

	return todos, nil
}

func (tr *TodoRepository) GetByID(ctx context.Context, id string) (domain.Todo, error) {
	ctx, obs := observe(ctx, tr.telemetry, tr.db, "GetByID", todoEntity, todoTable, map[string]interface{}{
		"todo.id": id,
	})

	query, args, err := tr.db.QueryBuilder.Select(todoColumns...).
		From(todoTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Todo{}, obs.fail(err)
	}

	obs.query(query, args)

	rows, err := tr.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Todo{}, obs.fail(err)
	}
	defer rows.Close()

	var record todoRow
	if err := tr.scanner.ScanRow(rows, &record); err != nil {
		return domain.Todo{}, obs.fail(err)
	}

	obs.done(nil)

	return record.toDomain(), nil
}

// Upsert inserts the todo or replaces every column of the row with the same id.
func (tr *TodoRepository) Upsert(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, obs := observe(ctx, tr.telemetry, tr.db, "Upsert", todoEntity, todoTable, map[string]interface{}{
		"db.operation": "UPSERT",
		"todo.id":      todo.ID,
	})

	lat, lng := todo.Location.Columns()

	query, args, err := tr.db.QueryBuilder.Insert(todoTable).
		Columns(todoColumns...).
		Values(todo.ID, todo.Title, todo.Done, lat, lng).
		Suffix("ON CONFLICT (id) DO UPDATE SET " +
			"title = excluded.title, is_done = excluded.is_done, " +
			"latitude = excluded.latitude, longitude = excluded.longitude").
		ToSql()
	if err != nil {
		return domain.Todo{}, obs.fail(err)
	}

	obs.query(query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.Todo{}, obs.fail(err)
	}

	attrs := map[string]interface{}{}
	if rowsAffected, err := result.RowsAffected(); err == nil {
		attrs["db.rows_affected"] = rowsAffected
	}

	saved, err := tr.GetByID(ctx, todo.ID)
	if err != nil {
		return domain.Todo{}, obs.fail(err)
	}

	obs.done(attrs)

	return saved, nil
}

func (tr *TodoRepository) Delete(ctx context.Context, id string) error {
	ctx, obs := observe(ctx, tr.telemetry, tr.db, "Delete", todoEntity, todoTable, map[string]interface{}{
		"db.operation": "DELETE",
		"todo.id":      id,
	})

	query, args, err := tr.db.QueryBuilder.Delete(todoTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return obs.fail(err)
	}

	obs.query(query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)
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
