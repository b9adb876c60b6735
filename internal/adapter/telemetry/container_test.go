package telemetry

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lovemap/pkg/config"

	_ "github.com/mattn/go-sqlite3"
)

func TestNewContainer_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := config.GetDefaultConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	container, err := NewContainer(ctx, cfg.App, cfg.Telemetry, logger)
	require.NoError(t, err)

	assert.Nil(t, container.MetricsServer)
	assert.NotNil(t, container.AppMetrics)
	assert.NotNil(t, container.NewTelemetryProbe())

	container.AppMetrics.RecordOperation(ctx, "todo", "created")

	rr := httptest.NewRecorder()
	container.MetricsHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `record_operations_total{entity="todo",operation="created"} 1`))

	assert.NoError(t, container.Shutdown(ctx))
}

func TestContainer_WatchDatabase(t *testing.T) {
	ctx := context.Background()
	cfg := config.GetDefaultConfig()

	container, err := NewContainer(ctx, cfg.App, cfg.Telemetry, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer container.Shutdown(ctx)

	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, container.WatchDatabase(conn, "lovemap"))
	assert.Error(t, container.WatchDatabase(conn, "lovemap"), "duplicate registration")
	assert.NoError(t, container.WatchDatabase(nil, "ignored"))

	rr := httptest.NewRecorder()
	container.MetricsHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Contains(t, rr.Body.String(), `go_sql_max_open_connections{db_name="lovemap"}`)
}
