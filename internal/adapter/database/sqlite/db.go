package sqlite

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"lovemap/pkg/config"
	"lovemap/pkg/db"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"
)

const MemoryPath = ":memory:"

//go:embed migrations/*.sql
var migrations embed.FS

// Open connects to the database file at cfg.Path. Queries are traced with otelsql
// and, when cfg.LogQueries is set, logged through zerolog.
func Open(cfg config.DatabaseConfig) (*db.DB, error) {
	dsn := dataSourceName(cfg.Path)

	sqlDB, err := otelsql.Open("sqlite3", dsn,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("lovemap"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if cfg.LogQueries {
		logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "sqlite").Logger()
		traced := sqlDB
		sqlDB = sqldblogger.OpenDriver(dsn, traced.Driver(), zerologadapter.New(logger),
			sqldblogger.WithMinimumLevel(sqldblogger.LevelDebug),
		)
		// only the traced driver is reused; its own pool has no connections yet
		traced.Close()
	}

	if isMemory(cfg.Path) {
		// every pooled connection would otherwise get its own empty database
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db.New(sqlDB, db.SQLite), nil
}

// Migrate applies every pending embedded migration and returns the resulting version.
func Migrate(conn *db.DB) (uint, error) {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("load migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(conn.DB, &sqlite3.Config{})
	if err != nil {
		return 0, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return 0, fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("run migrations: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return 0, err
	}

	return version, nil
}

func dataSourceName(path string) string {
	if isMemory(path) {
		return MemoryPath
	}

	if strings.Contains(path, "?") {
		return path
	}

	return path + "?_busy_timeout=5000&_journal_mode=WAL"
}

func isMemory(path string) bool {
	return path == MemoryPath || path == ""
}
