package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"lovemap/internal/core/domain"
	"lovemap/internal/core/port"
	"lovemap/pkg/db"
)

const (
	userEntity = "user"
	userTable  = "users"
)

var userColumns = []string{"id", "uuid", "email", "encrypted_password", "created_at", "updated_at"}

type UserRepository struct {
	db        *db.DB
	scanner   *db.Scanner
	telemetry port.Telemetry
}

func NewUserRepository(conn *db.DB, telemetry port.Telemetry) port.UserRepository {
	return &UserRepository{
		db:        conn,
		scanner:   db.NewScanner(),
		telemetry: withTelemetry(telemetry),
	}
}

func (ur *UserRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	return ur.getBy(ctx, "GetByID", sq.Eq{"id": id})
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return ur.getBy(ctx, "GetByEmail", sq.Eq{"email": email})
}

func (ur *UserRepository) getBy(ctx context.Context, operation string, where sq.Eq) (domain.User, error) {
	ctx, obs := observe(ctx, ur.telemetry, ur.db, operation, userEntity, userTable, nil)

	query, args, err := ur.db.QueryBuilder.Select(userColumns...).
		From(userTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.User{}, obs.fail(err)
	}

	obs.query(query, args)

	rows, err := ur.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.User{}, obs.fail(err)
	}
	defer rows.Close()

	var user domain.User
	if err := ur.scanner.ScanRow(rows, &user); err != nil {
		return domain.User{}, obs.fail(err)
	}

	obs.done(nil)

	return user, nil
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, obs := observe(ctx, ur.telemetry, ur.db, "Create", userEntity, userTable, map[string]interface{}{
		"db.operation": "INSERT",
	})

	query, args, err := ur.db.QueryBuilder.Insert(userTable).
		Columns("uuid", "email", "encrypted_password", "created_at", "updated_at").
		Values(user.UUID.String(), user.Email, user.EncryptedPassword, user.CreatedAt.UTC(), user.UpdatedAt.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.User{}, obs.fail(err)
	}

	obs.query(query, args)

	var id int
	if err := ur.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, obs.fail(domain.ErrAlreadyExists)
		}
		return domain.User{}, obs.fail(err)
	}

	saved, err := ur.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, obs.fail(err)
	}

	obs.done(map[string]interface{}{"user.id": id})

	return saved, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return false
}
