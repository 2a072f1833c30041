// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// TripLocation is the zone whose midnights delimit trip days.
	// Set TRIP_TIMEZONE to an IANA name; defaults to UTC.
	TripLocation *time.Location

	// PhotoMatchMaxDistanceMeters is the high/medium confidence radius of the
	// photo matcher. Defaults to 200.
	PhotoMatchMaxDistanceMeters float64

	// PhotoMatchTimeWindow is how close a capture time must be to a stop's
	// arrival or departure for a high confidence match. Defaults to 2h.
	PhotoMatchTimeWindow time.Duration

	// MaxBodyBytes caps request body size. Defaults to 1 MiB.
	MaxBodyBytes int64

	// ShutdownTimeout bounds graceful shutdown. Defaults to 15s.
	ShutdownTimeout time.Duration

	// MigrateOnStart applies pending goose migrations before serving.
	// Set MIGRATE_ON_START=true to enable.
	MigrateOnStart bool
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or any
// variables whose values cannot be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	var missing, invalid []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	loc, err := time.LoadLocation(getEnv("TRIP_TIMEZONE", "UTC"))
	if err != nil {
		invalid = append(invalid, "TRIP_TIMEZONE")
	}
	cfg.TripLocation = loc

	dist, err := strconv.ParseFloat(getEnv("PHOTO_MATCH_MAX_DISTANCE_METERS", "200"), 64)
	if err != nil || dist <= 0 {
		invalid = append(invalid, "PHOTO_MATCH_MAX_DISTANCE_METERS")
	}
	cfg.PhotoMatchMaxDistanceMeters = dist

	window, err := time.ParseDuration(getEnv("PHOTO_MATCH_TIME_WINDOW", "2h"))
	if err != nil || window < 0 {
		invalid = append(invalid, "PHOTO_MATCH_TIME_WINDOW")
	}
	cfg.PhotoMatchTimeWindow = window

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || maxBody <= 0 {
		invalid = append(invalid, "MAX_BODY_BYTES")
	}
	cfg.MaxBodyBytes = maxBody

	shutdown, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "15s"))
	if err != nil || shutdown <= 0 {
		invalid = append(invalid, "SHUTDOWN_TIMEOUT")
	}
	cfg.ShutdownTimeout = shutdown

	migrate, err := strconv.ParseBool(getEnv("MIGRATE_ON_START", "false"))
	if err != nil {
		invalid = append(invalid, "MIGRATE_ON_START")
	}
	cfg.MigrateOnStart = migrate

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog.Level, falling back to Info for
// anything slog does not recognise.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
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
