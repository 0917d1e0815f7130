package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("STORAGE", StorageMemory)
	t.Setenv("ENVIRONMENT", "dev")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.HTTPAddr)
	assert.Equal(t, []string{"*"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, http.SameSiteLaxMode, cfg.Auth.SameSite())
	assert.True(t, cfg.App.IsDevEnvironment())
	assert.Equal(t, "kupolls", cfg.Logger.AppName)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("STORAGE", StoragePostgres)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("POSTGRES_USER", "polls")
	t.Setenv("POSTGRES_PASSWORD", "p@ss word")
	t.Setenv("POSTGRES_DB", "kupolls")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("ADMIN_USERNAMES", "alice,bob")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("COOKIE_SAMESITE", "Strict")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, cfg.Auth.AdminUsernames)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, http.SameSiteStrictMode, cfg.Auth.SameSite())
	assert.Equal(t, "postgres://polls:p%40ss%20word@db:5432/kupolls?sslmode=disable", cfg.DB.ConnString())
}

func TestParse_Validation(t *testing.T) {
	t.Run("postgres needs credentials", func(t *testing.T) {
		t.Setenv("STORAGE", StoragePostgres)
		t.Setenv("POSTGRES_USER", "")
		t.Setenv("POSTGRES_DB", "")
		_, err := Parse()
		assert.Error(t, err)
	})

	t.Run("unknown storage", func(t *testing.T) {
		t.Setenv("STORAGE", "sqlite")
		_, err := Parse()
		assert.Error(t, err)
	})

	t.Run("secret required outside dev", func(t *testing.T) {
		t.Setenv("STORAGE", StorageMemory)
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := Parse()
		assert.Error(t, err)
	})
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("STORAGE", StorageMemory)
	t.Setenv("ENVIRONMENT", "dev")
	t.Setenv("HTTP_ADDR", "")
	os.Unsetenv("HTTP_ADDR")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=127.0.0.1:9999\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.App.HTTPAddr)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
