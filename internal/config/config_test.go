package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv - biến rỗng được coi như không set
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_NAME", "APP_ENV", "APP_PORT", "APP_VERSION", "APP_BASE_URL", "CORS_ALLOWED_ORIGINS",
		"REDIS_ENABLED", "REDIS_HOST", "REDIS_PASSWORD", "REDIS_DB", "REDIS_TTL",
		"PAGINATION_ITEMS_PER_PAGE", "DB_AUTO_MIGRATE",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"DB_MAX_CONNECTIONS", "DB_MIN_CONNECTIONS", "DB_MAX_RETRIES",
		"DB_MAX_CONN_LIFETIME", "DB_MAX_CONN_IDLE_TIME", "DB_HEALTH_CHECK_PERIOD",
		"DB_RETRY_DELAY", "DB_CONNECT_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "/api/v1", cfg.App.BaseURL)
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)
	assert.Equal(t, 10, cfg.Pagination.ItemsPerPage)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Migration.AutoMigrate)
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_BASE_URL", "/blog")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("PAGINATION_ITEMS_PER_PAGE", "25")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("DB_AUTO_MIGRATE", "0")
	t.Setenv("DB_RETRY_DELAY", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/blog", cfg.App.BaseURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
	assert.Equal(t, 25, cfg.Pagination.ItemsPerPage)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Migration.AutoMigrate)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.RetryDelay)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"DB_PORT": "abc"}},
		{"min above max", map[string]string{"DB_MIN_CONNECTIONS": "30", "DB_MAX_CONNECTIONS": "5"}},
		{"bad duration", map[string]string{"DB_CONNECT_TIMEOUT": "soon"}},
		{"bad redis ttl", map[string]string{"REDIS_TTL": "forever"}},
		{"zero page size", map[string]string{"PAGINATION_ITEMS_PER_PAGE": "0"}},
		{"production without password", map[string]string{"APP_ENV": "production"}},
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
