// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
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

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFile, when set, sends logs to a size-rotated file instead of stdout.
	LogFile string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// IdleTimeout is how long the pointer must rest before the globe resumes
	// rotating. Defaults to 10s.
	IdleTimeout time.Duration

	// SeedFile replaces the embedded seed set when set.
	SeedFile string

	// GeocoderURL is the Nominatim search endpoint.
	GeocoderURL string
	// GeocoderUserAgent is sent with every geocoding request.
	GeocoderUserAgent string
	// GeocoderRate is the request limit in requests per second. Defaults to 1.
	GeocoderRate float64

	// GeocodeCache selects the lookup cache: none, redis or postgres.
	GeocodeCache string
	// RedisAddr is the host:port of Redis. Used by the redis cache.
	RedisAddr string
	// DatabaseURL is the Postgres connection string. Required by the
	// postgres cache only.
	DatabaseURL string

	// CueBuffer is how many sound cues are held for the renderer.
	CueBuffer int
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing every variable that is missing or malformed.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFile:           os.Getenv("LOG_FILE"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		SeedFile:          os.Getenv("SEED_FILE"),
		GeocoderURL:       getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "travel-journal/1.0 (https://github.com/pkordes/travel-journal)"),
		GeocodeCache:      strings.ToLower(getEnv("GEOCODE_CACHE", "none")),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
	}

	var problems []string

	idle, err := time.ParseDuration(getEnv("IDLE_TIMEOUT", "10s"))
	if err != nil || idle <= 0 {
		problems = append(problems, "IDLE_TIMEOUT must be a positive duration")
	}
	cfg.IdleTimeout = idle

	rate, err := strconv.ParseFloat(getEnv("GEOCODER_RATE", "1"), 64)
	if err != nil || rate <= 0 {
		problems = append(problems, "GEOCODER_RATE must be a positive number")
	}
	cfg.GeocoderRate = rate

	buf, err := strconv.Atoi(getEnv("CUE_BUFFER", "32"))
	if err != nil || buf <= 0 {
		problems = append(problems, "CUE_BUFFER must be a positive integer")
	}
	cfg.CueBuffer = buf

	switch cfg.GeocodeCache {
	case "none", "redis":
	case "postgres":
		if cfg.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when GEOCODE_CACHE=postgres")
		}
	default:
		problems = append(problems, "GEOCODE_CACHE must be one of none, redis, postgres")
	}

	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
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
