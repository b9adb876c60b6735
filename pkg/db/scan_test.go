package db_test

import (
	"database/sql"
	"testing"
	"time"

	"lovemap/pkg/db"
	. "lovemap/pkg/test"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanned struct {
	ID        int64
	Label     string   `db:"title"`
	IsDone    bool     `db:"is_done"`
	Latitude  *float64 `db:"latitude"`
	Longitude *float64
	Skipped   string `db:"skipped" scan:"skip"`
}

func TestScanner_ScanRows(t *testing.T) {
	conn := InitTestDB()
	defer conn.Close()

	_, err := conn.Exec(`INSERT INTO todos (id, title, is_done, latitude, longitude) VALUES
		('a', 'first', 1, 10.5, 20.25),
		('b', 'second', 0, NULL, NULL)`)
	require.NoError(t, err)

	rows, err := conn.Query("SELECT rowid AS id, title, is_done, latitude, longitude, 'x' AS skipped FROM todos ORDER BY rowid")
	require.NoError(t, err)
	defer rows.Close()

	var result []scanned
	require.NoError(t, db.NewScanner().ScanRows(rows, &result))

	require.Len(t, result, 2)
	assert.Equal(t, "first", result[0].Label)
	assert.True(t, result[0].IsDone)
	require.NotNil(t, result[0].Latitude)
	assert.Equal(t, 10.5, *result[0].Latitude)
	assert.Equal(t, 20.25, *result[0].Longitude)
	assert.Empty(t, result[0].Skipped)

	assert.False(t, result[1].IsDone)
	assert.Nil(t, result[1].Latitude)
	assert.Nil(t, result[1].Longitude)
}

func TestScanner_ScanRow(t *testing.T) {
	conn := InitTestDB()
	defer conn.Close()

	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	_, err := conn.Exec("INSERT INTO users (uuid, email, encrypted_password, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		id.String(), "a@b.c", "hash", now, now)
	require.NoError(t, err)

	var user struct {
		ID        int
		UUID      uuid.UUID
		Email     string
		CreatedAt time.Time
	}

	rows, err := conn.Query("SELECT id, uuid, email, created_at FROM users")
	require.NoError(t, err)
	defer rows.Close()

	require.NoError(t, db.NewScanner().ScanRow(rows, &user))
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, id, user.UUID)
	assert.Equal(t, "a@b.c", user.Email)
	assert.True(t, now.Equal(user.CreatedAt))
}

func TestScanner_ScanRowEmpty(t *testing.T) {
	conn := InitTestDB()
	defer conn.Close()

	rows, err := conn.Query("SELECT id FROM todos")
	require.NoError(t, err)
	defer rows.Close()

	var dest struct{ ID string }
	assert.ErrorIs(t, db.NewScanner().ScanRow(rows, &dest), sql.ErrNoRows)
}

func TestScanner_RejectsNonStruct(t *testing.T) {
	conn := InitTestDB()
	defer conn.Close()

	rows, err := conn.Query("SELECT id FROM todos")
	require.NoError(t, err)
	defer rows.Close()

	var dest []string
	assert.Error(t, db.NewScanner().ScanRows(rows, &dest))
}

func TestNew_PlaceholderFormat(t *testing.T) {
	sqlite := db.New(nil, db.SQLite)
	query, _, err := sqlite.QueryBuilder.Select("id").From("todos").Where("id = ?", "a").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM todos WHERE id = ?", query)

	postgres := db.New(nil, db.Postgres)
	query, _, err = postgres.QueryBuilder.Select("id").From("todos").Where("id = ?", "a").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM todos WHERE id = $1", query)
}
