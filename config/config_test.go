package config

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	for _, k := range []string{"PORT", "SESSION_STORE", "SESSION_LATENCY", "CATALOG_SEED", "JWT_SECRET", "TOKEN_EXPIRY", "ALLOWED_ORIGINS", "AUTH_RATE_LIMIT", "EMAIL_PROVIDER"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SessionStoreFile, cfg.SessionStore)
	assert.Equal(t, time.Second, cfg.SessionLatency)
	assert.Equal(t, int64(0), cfg.CatalogSeed)
	assert.Equal(t, 24*time.Hour, cfg.TokenExpiry)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 10, cfg.AuthRateLimit)
	assert.Equal(t, "noop", cfg.Mailer.Provider)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_STORE", "Postgres")
	t.Setenv("SESSION_LATENCY", "250ms")
	t.Setenv("CATALOG_SEED", "42")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_EXPIRY", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://a.test, ,https://b.test")
	t.Setenv("AUTH_RATE_LIMIT", "0")
	t.Setenv("EMAIL_PROVIDER", "ses")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, SessionStorePostgres, cfg.SessionStore)
	assert.Equal(t, 250*time.Millisecond, cfg.SessionLatency)
	assert.Equal(t, int64(42), cfg.CatalogSeed)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenExpiry, "malformed duration falls back")
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 0, cfg.AuthRateLimit)
	assert.Equal(t, "ses", cfg.Mailer.Provider)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unknown session store", func(t *testing.T) {
		t.Setenv("GO_ENV", "test")
		t.Setenv("SESSION_STORE", "redis")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("production requires secret", func(t *testing.T) {
		t.Setenv("GO_ENV", "production")
		t.Setenv("SESSION_STORE", "")
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env, level string
		wantJSON   bool
		debugOn    bool
	}{
		{"production", "", true, false},
		{"development", "debug", false, true},
		{"development", "WARN", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.env, tt.level)
			assert.Equal(t, tt.debugOn, logger.Enabled(context.Background(), slog.LevelDebug))
			logger.Error("boom")
			assert.Equal(t, tt.wantJSON, strings.HasPrefix(buf.String(), "{"))
		})
	}
}
