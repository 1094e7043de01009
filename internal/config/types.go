package config

import "time"

// stroke log backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	StrokeStore    string
	DatabaseURL    string
	RedisURL       string
	SQLitePath     string
	ClientURL      string
	AllowedOrigins string
	RESTRateLimit  string
	StrokeQueue    int
	ReplayTimeout  time.Duration
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// terminal client options
type ClientFlags struct {
	Server   string
	Room     string
	Username string
}
