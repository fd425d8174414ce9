package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"session_auth/internal/config"
	"session_auth/internal/logger"
	"session_auth/internal/repository"
)

func TestRootCmd_FlagsOverrideConfig(t *testing.T) {
	root := newRootCmd()
	require.NoError(t, root.PersistentFlags().Set("port", "9999"))

	v := viper.New()
	require.NoError(t, bindFlags(v, root.PersistentFlags()))
	cfg, err := config.Load(v, t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DB.Driver, "unset flags keep defaults")
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestOpenDBAndMigrate_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{DB: config.DBConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "app.db")}}

	conn, dialect, err := openDB(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, repository.DialectSQLite, dialect)

	require.NoError(t, migrate(ctx, conn, dialect, logger.Nop()))
	require.NoError(t, migrate(ctx, conn, dialect, logger.Nop()), "second run is a no-op")
}

func TestOpenDB_Rejects(t *testing.T) {
	ctx := context.Background()

	_, _, err := openDB(ctx, &config.Config{DB: config.DBConfig{Driver: "mysql"}}, logger.Nop())
	assert.Error(t, err)

	_, _, err = openDB(ctx, &config.Config{DB: config.DBConfig{Driver: "postgres"}}, logger.Nop())
	assert.Error(t, err, "postgres needs a DSN")
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	sqlSessions := repository.NewSessionMemory()

	got, closeFn, err := sessionStore(ctx, &config.Config{Session: config.SessionConfig{Store: "sql"}}, sqlSessions)
	require.NoError(t, err)
	closeFn()
	assert.Same(t, sqlSessions, got)

	got, closeFn, err = sessionStore(ctx, &config.Config{Session: config.SessionConfig{Store: "memory"}}, sqlSessions)
	require.NoError(t, err)
	closeFn()
	assert.IsType(t, &repository.SessionMemory{}, got)
	assert.NotSame(t, sqlSessions, got)

	_, _, err = sessionStore(ctx, &config.Config{Session: config.SessionConfig{Store: "etcd"}}, sqlSessions)
	assert.Error(t, err)
}
