package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsFromEnvironment(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 60*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, "memory", cfg.Storage.Type)
	assert.Equal(t, "local", cfg.Broadcaster.Type)
	assert.Equal(t, 16, cfg.Broadcaster.BufferSize)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("BROADCASTER_TYPE", "redis")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Storage.Type)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, "redis", cfg.Broadcaster.Type)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
log-level: warn
http:
  port: 7070
storage:
  type: sqlite
  sqlite-path: /tmp/rooms.db
auth:
  jwt-secret: file-secret
  session-duration: 2h
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.HTTP.Port)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, "/tmp/rooms.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
	// unset fields keep their defaults
	assert.Equal(t, "local", cfg.Broadcaster.Type)
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "floppy")

	_, err := Load("")
	assert.ErrorContains(t, err, "invalid storage type")
}

func TestLoadPostgresNeedsDSN(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "postgres")

	_, err := Load("")
	assert.ErrorContains(t, err, "requires a DSN")

	t.Setenv("POSTGRES_DSN", "postgres://localhost/gameroom")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/gameroom", cfg.Storage.PostgresDSN)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
