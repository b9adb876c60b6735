package test

import (
	"log"
	"testing"

	"lovemap/internal/adapter/database/sqlite"
	"lovemap/pkg/config"
	"lovemap/pkg/db"
)

type TestSetup[T any] struct {
	DB   *db.DB
	Repo *T
}

// InitTestDB opens a migrated in-memory sqlite database.
func InitTestDB() *db.DB {
	conn, err := sqlite.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   sqlite.MemoryPath,
	})
	if err != nil {
		log.Fatal(err)
	}

	if _, err := sqlite.Migrate(conn); err != nil {
		log.Fatal(err)
	}

	return conn
}

func SetupTest[T any](t *testing.T, build func(*db.DB) *T) *TestSetup[T] {
	t.Helper()
	conn := InitTestDB()

	return &TestSetup[T]{
		DB:   conn,
		Repo: build(conn),
	}
}

func TeardownTest[T any](t *testing.T, setup *TestSetup[T]) {
	t.Helper()
	if setup.DB == nil {
		return
	}

	CleanDB(t, setup.DB)
	setup.DB.Close()
}

// CleanDB empties every application table and re-seeds the profile row.
func CleanDB(t *testing.T, conn *db.DB) {
	t.Helper()

	rows, err := conn.Query("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT IN ('sqlite_sequence', 'schema_migrations')")
	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}

	var tables []string
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			rows.Close()
			t.Fatalf("Failed to scan table name: %v", err)
		}
		tables = append(tables, table)
	}
	rows.Close()

	for _, table := range tables {
		if _, err := conn.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to execute delete for table %s: %v", table, err)
		}
	}

	if _, err := conn.Exec("INSERT INTO profile (id, nickname, image_uri) VALUES (1, '', '')"); err != nil {
		t.Fatalf("Failed to re-seed profile: %v", err)
	}
}
