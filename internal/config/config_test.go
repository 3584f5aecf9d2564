package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mangobar/mangobar-web/internal/config"
)

var allVars = []string{
	"PORT", "LOG_LEVEL", "CORS_ORIGINS", "LICENSE_DB_PATH", "LICENSE_DB_STAMP_PATH",
	"LICENSE_DB_SOURCE_URL", "REFRESH_ENABLED", "REFRESH_INTERVAL", "S3_REGION",
	"S3_ENDPOINT", "DATABASE_URL", "MAX_BODY_BYTES", "LICENSE_DB_SCHEMA", "FETCH_TIMEOUT",
	"SESSION_IDLE_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
	}
}

// TestLoad_defaults verifies that every variable falls back to its default.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	require.Equal(t, "mangobardata.db", cfg.LicenseDBPath)
	require.Equal(t, "db_last_download.txt", cfg.StampPath)
	require.Equal(t, config.DefaultSourceURL, cfg.SourceURL)
	require.True(t, cfg.RefreshEnabled)
	require.Equal(t, time.Hour, cfg.RefreshInterval)
	require.Equal(t, "ap-northeast-2", cfg.S3Region)
	require.Empty(t, cfg.S3Endpoint)
	require.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	require.Equal(t, "registry", cfg.LicenseDBSchema)
	require.Equal(t, 5*time.Minute, cfg.FetchTimeout)
	require.Equal(t, 12*time.Hour, cfg.SessionIdleTimeout)
	require.False(t, cfg.UsePostgres())
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("LICENSE_DB_PATH", "/data/licenses.db")
	t.Setenv("LICENSE_DB_STAMP_PATH", "/data/stamp.txt")
	t.Setenv("LICENSE_DB_SOURCE_URL", "s3://registry/snapshots/latest.db")
	t.Setenv("REFRESH_ENABLED", "false")
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/licenses")
	t.Setenv("MAX_BODY_BYTES", "4096")
	t.Setenv("LICENSE_DB_SCHEMA", "Migrated")
	t.Setenv("FETCH_TIMEOUT", "30s")
	t.Setenv("SESSION_IDLE_TIMEOUT", "45m")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.Equal(t, "/data/licenses.db", cfg.LicenseDBPath)
	require.Equal(t, "/data/stamp.txt", cfg.StampPath)
	require.Equal(t, "s3://registry/snapshots/latest.db", cfg.SourceURL)
	require.False(t, cfg.RefreshEnabled)
	require.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	require.Equal(t, "us-east-1", cfg.S3Region)
	require.Equal(t, "http://minio:9000", cfg.S3Endpoint)
	require.True(t, cfg.UsePostgres())
	require.Equal(t, int64(4096), cfg.MaxBodyBytes)
	require.Equal(t, "migrated", cfg.LicenseDBSchema)
	require.Equal(t, 30*time.Second, cfg.FetchTimeout)
	require.Equal(t, 45*time.Minute, cfg.SessionIdleTimeout)
}

// TestLoad_invalid verifies that malformed values are reported by name.
func TestLoad_invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("REFRESH_ENABLED", "maybe")
	t.Setenv("REFRESH_INTERVAL", "daily")
	t.Setenv("MAX_BODY_BYTES", "-1")
	t.Setenv("LICENSE_DB_SCHEMA", "i2500")
	t.Setenv("FETCH_TIMEOUT", "0s")
	t.Setenv("SESSION_IDLE_TIMEOUT", "forever")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "REFRESH_ENABLED")
	require.ErrorContains(t, err, "REFRESH_INTERVAL")
	require.ErrorContains(t, err, "MAX_BODY_BYTES")
	require.ErrorContains(t, err, "LICENSE_DB_SCHEMA")
	require.ErrorContains(t, err, "FETCH_TIMEOUT")
	require.ErrorContains(t, err, "SESSION_IDLE_TIMEOUT")
}
