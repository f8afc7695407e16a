package config

import (
	"os"
	"time"
)

// Config holds service configuration loaded from environment variables.
// The auth signing secret is read directly by the auth package
// (TASKDECK_AUTH_SECRET) and is required; there is no default.
type Config struct {
	Addr        string
	PostgresDSN string
	TokenTTL    time.Duration
}

// Load reads configuration with development-friendly defaults.
func Load() *Config {
	return &Config{
		Addr:        getenv("TASKDECK_ADDR", ":8080"),
		PostgresDSN: getenv("TASKDECK_PG_DSN", ""),
		TokenTTL:    getduration("TASKDECK_TOKEN_TTL", 24*time.Hour),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
