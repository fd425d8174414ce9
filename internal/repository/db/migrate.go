package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"

	"session_auth/internal/repository"
)

//go:embed migrations
var migrations embed.FS

// MigrationResult summarises one applied migration.
type MigrationResult struct {
	Version  int64
	Path     string
	Duration time.Duration
}

// Migrate applies every pending migration for the dialect and reports what ran.
func Migrate(ctx context.Context, db *sql.DB, dialect repository.Dialect) ([]MigrationResult, error) {
	gooseDialect, dir, err := gooseTarget(dialect)
	if err != nil {
		return nil, err
	}
	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("open migrations %q: %w", dir, err)
	}
	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	out := make([]MigrationResult, 0, len(results))
	for _, r := range results {
		res := MigrationResult{Duration: r.Duration}
		if r.Source != nil {
			res.Version = r.Source.Version
			res.Path = r.Source.Path
		}
		out = append(out, res)
	}
	return out, nil
}

func gooseTarget(dialect repository.Dialect) (goose.Dialect, string, error) {
	switch dialect {
	case repository.DialectSQLite:
		return goose.DialectSQLite3, "migrations/sqlite", nil
	case repository.DialectPostgres:
		return goose.DialectPostgres, "migrations/postgres", nil
	default:
		return "", "", fmt.Errorf("unsupported dialect %q", dialect)
	}
}
