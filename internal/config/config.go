package config

import (
	"fmt"
	"os"

	"github.com/hieudev/todo-api/internal/features"
)

// Config holds application configuration
type Config struct {
	DatabaseURL     string
	ServerPort      string
	FrontendURL     string
	RateLimit       string
	RedisURL        string
	EnableHSTS      bool
	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string

	SeedEnabled bool
	SeedCSVPath string

	FeatureDefaults features.Defaults
	FlagPersistence bool
	FlagStateFile   string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		RateLimit:       getEnv("RATE_LIMIT", "20-S"),
		RedisURL:        getEnv("REDIS_URL", ""),
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		SeedEnabled: getEnvBool("SEED_ENABLED", true),
		SeedCSVPath: getEnv("SEED_CSV_PATH", "data/todos.csv"),

		FeatureDefaults: features.Defaults{
			PingAPI:       getEnvBool("FEATURE_PING_API_ENABLED", true),
			ReadmeLogger:  getEnvBool("FEATURE_README_LOGGER_ENABLED", false),
			TodoWriteAPI:  getEnvBool("FEATURE_TODO_WRITE_API_ENABLED", true),
			TodoSearchAPI: getEnvBool("FEATURE_TODO_SEARCH_API_ENABLED", true),
		},
		FlagPersistence: getEnvBool("FEATURE_FLAGS_PERSISTENCE_ENABLED", true),
		FlagStateFile:   getEnv("FEATURE_FLAGS_STATE_FILE", "data/feature-flags-state.json"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
