package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"API_PORT", "PORT", "APP_ENV", "NODE_ENV", "JWT_SECRET", "JWT_EXPIRATION_HOURS",
	"COOKIE_NAME", "BCRYPT_COST", "DATABASE_URL", "DB_NAME", "CLIENT_ORIGINS",
	"RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW_MINUTES", "SHUTDOWN_TIMEOUT_SECONDS", "LOG_LEVEL",
}

// clearEnv unsets every key Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.APIPort)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []byte("replace_me"), cfg.JWTKey)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExp)
	assert.Equal(t, "mini_one_token", cfg.CookieName)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 200, cfg.RateLimitMax)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Contains(t, cfg.DBConnStr, "dbname=mini_one")
	assert.Empty(t, cfg.ClientOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NODE_ENV", "Production")
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "1")
	t.Setenv("COOKIE_NAME", "board")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/board")
	t.Setenv("CLIENT_ORIGINS", "http://localhost:5173, https://board.example.com ,")
	t.Setenv("RATE_LIMIT_MAX", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.APIPort)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, time.Hour, cfg.JWTExp)
	assert.Equal(t, "board", cfg.CookieName)
	assert.Equal(t, "postgres://u:p@db:5432/board", cfg.DBConnStr)
	assert.Equal(t, []string{"http://localhost:5173", "https://board.example.com"}, cfg.ClientOrigins)
	assert.Equal(t, 200, cfg.RateLimitMax, "unparsable ints fall back to the default")
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "production keeps the default secret", env: map[string]string{"APP_ENV": "production"}},
		{name: "empty secret", env: map[string]string{"JWT_SECRET": ""}},
		{name: "non-positive expiry", env: map[string]string{"JWT_EXPIRATION_HOURS": "0"}},
		{name: "non-positive rate limit", env: map[string]string{"RATE_LIMIT_MAX": "-1"}},
		{name: "bcrypt cost too cheap", env: map[string]string{"BCRYPT_COST": "4"}},
		{name: "bcrypt cost just below minimum", env: map[string]string{"BCRYPT_COST": "9"}},
		{name: "bcrypt cost above maximum", env: map[string]string{"BCRYPT_COST": "32"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_BcryptCostAtMinimum(t *testing.T) {
	clearEnv(t)
	t.Setenv("BCRYPT_COST", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, MinBcryptCost, cfg.BcryptCost)
}
