// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultSourceURL is where the registry snapshot is published.
const DefaultSourceURL = "https://drive.google.com/uc?export=download&id=1cjYTpM40hMOs817KvSOWq1HmLkvUdCXn"

// Config holds all configuration values for the search server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins for the
	// JSON API. Defaults to ["http://localhost:5173"].
	CORSOrigins []string

	// LicenseDBPath is the local SQLite snapshot file. Defaults to "mangobardata.db".
	LicenseDBPath string

	// LicenseDBSchema names the table layout of the SQLite file: "registry"
	// for the published snapshot (i2500/i2819), "migrated" for a file built
	// from migrations/. Defaults to "registry".
	LicenseDBSchema string

	// StampPath records the calendar day of the last snapshot download.
	// Defaults to "db_last_download.txt".
	StampPath string

	// SourceURL is where the snapshot is fetched from: http(s):// or s3://bucket/key.
	SourceURL string

	// RefreshEnabled turns the daily snapshot refresh on. Defaults to true.
	RefreshEnabled bool

	// FetchTimeout bounds one snapshot download. Defaults to 5m.
	FetchTimeout time.Duration

	// RefreshInterval is how often the day-boundary check runs. Defaults to 1h.
	RefreshInterval time.Duration

	// S3Region and S3Endpoint configure the S3 client for s3:// sources.
	// S3Endpoint is optional (MinIO and other S3-compatible stores).
	S3Region   string
	S3Endpoint string

	// DatabaseURL, when set, selects the Postgres license store instead of
	// the SQLite snapshot. The refresher is not used in that mode.
	DatabaseURL string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// SessionIdleTimeout is how long an unused session is kept. Defaults to 12h.
	SessionIdleTimeout time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming every variable that is set to a malformed value.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		LicenseDBPath:   getEnv("LICENSE_DB_PATH", "mangobardata.db"),
		LicenseDBSchema: strings.ToLower(getEnv("LICENSE_DB_SCHEMA", "registry")),
		StampPath:       getEnv("LICENSE_DB_STAMP_PATH", "db_last_download.txt"),
		SourceURL:       getEnv("LICENSE_DB_SOURCE_URL", DefaultSourceURL),
		S3Region:        getEnv("S3_REGION", "ap-northeast-2"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
	}

	var invalid []string

	if cfg.LicenseDBSchema != "registry" && cfg.LicenseDBSchema != "migrated" {
		invalid = append(invalid, "LICENSE_DB_SCHEMA")
	}

	enabled, err := strconv.ParseBool(getEnv("REFRESH_ENABLED", "true"))
	if err != nil {
		invalid = append(invalid, "REFRESH_ENABLED")
	}
	cfg.RefreshEnabled = enabled

	interval, err := time.ParseDuration(getEnv("REFRESH_INTERVAL", "1h"))
	if err != nil || interval <= 0 {
		invalid = append(invalid, "REFRESH_INTERVAL")
	}
	cfg.RefreshInterval = interval

	fetchTimeout, err := time.ParseDuration(getEnv("FETCH_TIMEOUT", "5m"))
	if err != nil || fetchTimeout <= 0 {
		invalid = append(invalid, "FETCH_TIMEOUT")
	}
	cfg.FetchTimeout = fetchTimeout

	idle, err := time.ParseDuration(getEnv("SESSION_IDLE_TIMEOUT", "12h"))
	if err != nil || idle <= 0 {
		invalid = append(invalid, "SESSION_IDLE_TIMEOUT")
	}
	cfg.SessionIdleTimeout = idle

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || maxBody <= 0 {
		invalid = append(invalid, "MAX_BODY_BYTES")
	}
	cfg.MaxBodyBytes = maxBody

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// UsePostgres reports whether the Postgres license store is configured.
func (c Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
