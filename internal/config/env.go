package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort          = "8080"
	defaultSQLitePath    = "./data/collabboard.db"
	defaultRESTRateLimit = "300-M"
	defaultStrokeQueue   = 4096
	defaultReplayTimeout = 5 * time.Second
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	cfg := &Config{
		Port:           getenv("PORT", defaultPort),
		Environment:    getenv("ENVIRONMENT", "development"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		StrokeStore:    getenv("STROKE_STORE", StoreSQLite),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		SQLitePath:     getenv("SQLITE_PATH", defaultSQLitePath),
		ClientURL:      os.Getenv("CLIENT_URL"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		RESTRateLimit:  getenv("REST_RATE_LIMIT", defaultRESTRateLimit),
		StrokeQueue:    defaultStrokeQueue,
		ReplayTimeout:  defaultReplayTimeout,
	}

	if raw := os.Getenv("STROKE_QUEUE_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("STROKE_QUEUE_SIZE must be a positive integer, got %q", raw)
		}

		cfg.StrokeQueue = n
	}

	if raw := os.Getenv("REPLAY_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("REPLAY_TIMEOUT must be a positive duration, got %q", raw)
		}

		cfg.ReplayTimeout = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StrokeStore {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required when STROKE_STORE=postgres")
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL environment variable is required when STROKE_STORE=redis")
		}
	default:
		return fmt.Errorf("unknown STROKE_STORE %q (want memory, sqlite, postgres or redis)", c.StrokeStore)
	}

	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
