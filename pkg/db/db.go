package db

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
)

type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DB pairs a connection pool with a statement builder using the dialect's placeholders.
type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
	Dialect      Dialect
}

func New(sqlDB *sql.DB, dialect Dialect) *DB {
	var format squirrel.PlaceholderFormat = squirrel.Question
	if dialect == Postgres {
		format = squirrel.Dollar
	}

	builder := squirrel.StatementBuilder.PlaceholderFormat(format)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &builder,
		Dialect:      dialect,
	}
}
