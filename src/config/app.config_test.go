package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	// viper ignores empty variables, so blanking them restores the defaults
	for _, key := range []string{
		"HOST", "APP_PORT", "LOG_LEVEL", "CACHE_TTL", "EXPORT_INTERVAL", "CORS_ORIGINS",
		"DB_HOST", "REDIS_MODE", "REDIS_HOST", "REDIS_SENTINELS", "MINIO_ENDPOINT",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearEnv(t)
	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:2000", s.Addr())
	assert.Equal(t, "INFO", s.LogLevel)
	assert.Equal(t, 16*time.Hour, s.CacheTTL)
	assert.Equal(t, time.Hour, s.ExportInterval)
	assert.Equal(t, []string{"*"}, s.CORSOrigins)
	assert.False(t, s.Database.Enabled())
	assert.False(t, s.Redis.Enabled())
	assert.False(t, s.Minio.Enabled())
	assert.False(t, s.RateLimit.Enabled)
	assert.Equal(t, 4, s.RateLimit.Burst)
}

func TestLoadSettings_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "8080")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "film")
	t.Setenv("DB_PASS", "secret")
	t.Setenv("DB_NAME", "filmbase")
	t.Setenv("REDIS_MODE", "sentinel")
	t.Setenv("REDIS_SENTINELS", "s1:26379,s2:26379")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "5.5")

	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, 30*time.Minute, s.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, s.CORSOrigins)
	assert.True(t, s.Database.Enabled())
	assert.Equal(t, "host=db port=5432 user=film password=secret dbname=filmbase sslmode=disable", s.Database.DSN())
	assert.True(t, s.Redis.Enabled())
	assert.Equal(t, []string{"s1:26379", "s2:26379"}, s.Redis.Sentinels)
	assert.True(t, s.RateLimit.Enabled)
	assert.Equal(t, 5.5, s.RateLimit.RPS)
}

func TestLoadSettings_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("EXPORT_INTERVAL", "soon")

	_, err := LoadSettings()
	assert.Error(t, err)
}
