package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ProviderURL string // Optional: base URL of the Mysterria identity provider (default: https://www.mysterria.net)
	PublicURL   string // Optional: the archive's own public origin, used for callback URLs and origin filtering (default: https://archive.mysterria.net)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./archive.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// Local development keeps its settings in a .env file; absence is fine.
	_ = godotenv.Load()

	cfg := Config{
		ProviderURL:         getEnvOrDefault("ARCHIVE_PROVIDER_URL", "https://www.mysterria.net"),
		PublicURL:           getEnvOrDefault("ARCHIVE_PUBLIC_URL", "https://archive.mysterria.net"),
		DatabaseFile:        getEnvOrDefault("ARCHIVE_DATABASE_FILE", "archive.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	// Origin matching is exact, so a trailing slash in config would break the
	// relay filter.
	cfg.ProviderURL = strings.TrimSuffix(cfg.ProviderURL, "/")
	cfg.PublicURL = strings.TrimSuffix(cfg.PublicURL, "/")

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
