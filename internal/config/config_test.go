package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billed/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5678, cfg.App.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "postgres://postgres:@localhost:5432/billed?sslmode=disable", cfg.ConnectionString())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("API_URL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.tld,http://b.tld")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.App.Port)
	assert.Empty(t, cfg.Client.APIURL)
	assert.Equal(t, []string{"http://a.tld", "http://b.tld"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("JWT_TTL", "forever")

	_, err := config.Load()
	assert.Error(t, err)
}
