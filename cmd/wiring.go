package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"session_auth/internal/config"
	"session_auth/internal/logger"
	"session_auth/internal/repository"
	"session_auth/internal/repository/db"
)

// openDB opens the configured database and reports its dialect.
func openDB(ctx context.Context, cfg *config.Config, log *logger.Logger) (*sql.DB, repository.Dialect, error) {
	dialect, ok := repository.ParseDialect(cfg.DB.Driver)
	if !ok {
		return nil, "", fmt.Errorf("unsupported db.driver %q", cfg.DB.Driver)
	}

	switch dialect {
	case repository.DialectPostgres:
		if cfg.DB.DSN == "" {
			return nil, "", fmt.Errorf("db.dsn is required for postgres")
		}
		conn, err := db.InitPostgres(ctx, cfg.DB.DSN)
		return conn, dialect, err
	default:
		path := cfg.DB.Path
		if path == "" {
			log.Infow("db.path not set in config; using default file", "default", "database.db")
			path = "database.db"
		}
		conn, err := db.InitDB(path)
		return conn, dialect, err
	}
}

// migrate brings the schema up to date, logging each applied migration.
func migrate(ctx context.Context, conn *sql.DB, dialect repository.Dialect, log *logger.Logger) error {
	results, err := db.Migrate(ctx, conn, dialect)
	if err != nil {
		return err
	}
	for _, r := range results {
		log.Infow("migration_applied", "version", r.Version, "path", r.Path, "duration", r.Duration)
	}
	if len(results) == 0 {
		log.Debugw("schema_up_to_date", "dialect", dialect)
	}
	return nil
}

// sessionStore picks the session backend. sqlSessions is used for "sql".
func sessionStore(ctx context.Context, cfg *config.Config, sqlSessions repository.Sessions) (repository.Sessions, func(), error) {
	noop := func() {}
	switch cfg.Session.Store {
	case "", "sql":
		return sqlSessions, noop, nil
	case "memory":
		return repository.NewSessionMemory(), noop, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Session.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("ping redis at %q: %w", cfg.Session.RedisAddr, err)
		}
		return repository.NewSessionRedis(client, cfg.Session.RedisTTL), func() { _ = client.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unsupported session.store %q", cfg.Session.Store)
	}
}
