package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/pixarr/pixarr/internal/blob"
	"github.com/pixarr/pixarr/internal/config"
	"github.com/pixarr/pixarr/internal/gallery"
	"github.com/pixarr/pixarr/internal/migrations"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// app holds the shared wiring every subcommand needs.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	db    *sql.DB
	store *gallery.Store
	blobs blob.Store
}

// newApp loads configuration, opens the database, applies migrations, and
// roots blob storage. Callers must Close.
func newApp(path string) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	if err := os.MkdirAll(cfg.Storage.Root, 0o755); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	blobs, err := blob.NewLocal(cfg.Storage.Root)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening blob storage: %w", err)
	}

	return &app{
		cfg:   cfg,
		log:   logger,
		db:    db,
		store: gallery.NewStore(db),
		blobs: blobs,
	}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
}
