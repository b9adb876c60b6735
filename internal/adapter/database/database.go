package database

import (
	"fmt"
	"log/slog"

	"lovemap/internal/adapter/database/postgres"
	"lovemap/internal/adapter/database/sqlite"
	"lovemap/pkg/config"
	"lovemap/pkg/db"
)

// Open connects to the configured driver and brings the schema up to date.
func Open(cfg config.DatabaseConfig) (*db.DB, error) {
	var (
		conn    *db.DB
		version uint
		err     error
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		if conn, err = postgres.Open(cfg); err != nil {
			return nil, err
		}
		version, err = postgres.Migrate(cfg.URL)
	case config.DriverSQLite, "":
		if conn, err = sqlite.Open(cfg); err != nil {
			return nil, err
		}
		version, err = sqlite.Migrate(conn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err != nil {
		conn.Close()
		return nil, err
	}

	slog.Info("Database ready", "driver", conn.Dialect, "schema_version", version)

	return conn, nil
}
