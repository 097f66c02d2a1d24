package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime settings, sourced from environment variables.
type Config struct {
	AppEnv    string
	LogLevel  string
	LogFormat string
	Debug     bool

	// DatabaseURL selects the Postgres backend when set; otherwise the
	// service runs on a local SQLite file at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	HTTPListenAddr string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool

	MetricsNamespace string
}

// Load reads configuration from the environment and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		Debug:     getEnvAsBool("DEBUG", false),

		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:  getEnv("SQLITE_PATH", "placement.db"),

		HTTPListenAddr: getEnv("HTTP_LISTEN_ADDR", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		MetricsNamespace: getEnv("METRICS_NAMESPACE", "placement_admin"),
	}

	if cfg.HTTPListenAddr == "" {
		if port := getEnv("PORT", ""); port != "" {
			cfg.HTTPListenAddr = ":" + port
		} else {
			cfg.HTTPListenAddr = ":5001"
		}
	}

	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	if cfg.DatabaseURL != "" &&
		!strings.HasPrefix(cfg.DatabaseURL, "postgres://") &&
		!strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		return nil, fmt.Errorf("DATABASE_URL must be a postgres:// URL, got %q", cfg.DatabaseURL)
	}

	return cfg, nil
}

// UseSQLite reports whether the service should run on the SQLite backend.
func (c *Config) UseSQLite() bool {
	return c.DatabaseURL == ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
