package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

var commands = map[string]func(ctx context.Context, db *sql.DB, dir string) error{
	"up":      func(ctx context.Context, db *sql.DB, dir string) error { return goose.UpContext(ctx, db, dir) },
	"down":    func(ctx context.Context, db *sql.DB, dir string) error { return goose.DownContext(ctx, db, dir) },
	"reset":   func(ctx context.Context, db *sql.DB, dir string) error { return goose.ResetContext(ctx, db, dir) },
	"status":  func(ctx context.Context, db *sql.DB, dir string) error { return goose.StatusContext(ctx, db, dir) },
	"version": func(ctx context.Context, db *sql.DB, dir string) error { return goose.VersionContext(ctx, db, dir) },
}

// RunMigrations brings the export history schema up to date. A nil database
// is a no-op so in-memory setups can call it unconditionally.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	return Migrate(ctx, database, "up")
}

// Migrate runs one goose command against the embedded migrations.
func Migrate(ctx context.Context, database *sql.DB, command string) error {
	run, ok := commands[command]
	if !ok {
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if database == nil {
		return fmt.Errorf("migrate %s: no database", command)
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return run(ctx, database, migrationsDir)
}
