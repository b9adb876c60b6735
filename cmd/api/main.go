package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"lovemap/internal/adapter/database"
	httpadapter "lovemap/internal/adapter/http"
	"lovemap/internal/adapter/mcp"
	"lovemap/internal/app"
	"lovemap/pkg/config"
	"lovemap/pkg/logger"
)

func loadConfig(cmd *cli.Command) (*config.AppConfig, error) {
	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func setupSlog(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	l := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(l)
	return l
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	slogger := setupSlog(os.Stdout, cfg.Log.Level)

	log, err := logger.NewLokiLogger(cfg.App.Name, cfg.Log.Level, cfg.Log.LokiURL)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, slogger)
	if err != nil {
		return fmt.Errorf("app init error: %w", err)
	}
	defer a.Close(context.Background())

	a.Telemetry.AppMetrics.StartStoreMetrics(ctx, time.Minute, a.StoreCounts)

	if err := httpadapter.StartServer(ctx, a, log); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	setupSlog(os.Stdout, cfg.Log.Level)

	conn, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return conn.Close()
}

// runMCP keeps stdout for the protocol; every log line goes to stderr.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	slogger := setupSlog(os.Stderr, cfg.Log.Level)

	a, err := app.New(ctx, cfg, slogger)
	if err != nil {
		return fmt.Errorf("app init error: %w", err)
	}
	defer a.Close(context.Background())

	return mcp.New(a.TodoService, a.PostService, a.ProfileService, cfg.Telemetry.ServiceVersion).ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:   "lovemap",
		Usage:  "Todos, posts and a profile for two, over HTTP or MCP",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("LOVEMAP_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Apply database migrations and exit",
				Action: migrate,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the stores as MCP tools over stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
