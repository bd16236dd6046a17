package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"badminton_board_backend/internal/database"
	"badminton_board_backend/pkg/utils"

	"github.com/joho/godotenv"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = database.DriverPostgres
	StoreDriverSQLite   = database.DriverSQLite
	StoreDriverRedis    = "redis"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port        string
	GinMode     string
	LogLevel    string
	StoreDriver string

	Postgres    database.PostgresConfig
	SchemaPath  string
	SQLitePath  string
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	RedisPrefix string

	JWTSecret     string
	JWTExpiration time.Duration

	AllowedOrigins []string
}

// Load reads an optional .env file (existing variables win) and builds the
// Config from the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Port:        utils.Getenv("PORT", "8080"),
		GinMode:     utils.Getenv("GIN_MODE", "release"),
		LogLevel:    utils.Getenv("LOG_LEVEL", "info"),
		StoreDriver: strings.ToLower(utils.Getenv("STORE_DRIVER", StoreDriverMemory)),
		Postgres: database.PostgresConfig{
			Host:     utils.Getenv("DB_HOST", "localhost"),
			Port:     utils.Getenv("DB_PORT", "5432"),
			User:     utils.Getenv("DB_USER", "badminton_user"),
			Password: utils.Getenv("DB_PASSWORD", "badminton_password"),
			DBName:   utils.Getenv("DB_NAME", "badminton_board_db"),
			SSLMode:  utils.Getenv("DB_SSLMODE", "disable"),
		},
		SchemaPath:    utils.Getenv("DB_SCHEMA_PATH", ""),
		SQLitePath:    utils.Getenv("SQLITE_PATH", "badminton_board.db"),
		RedisAddr:     utils.Getenv("REDIS_ADDR", "localhost:6379"),
		RedisPass:     utils.Getenv("REDIS_PASSWORD", ""),
		RedisDB:       utils.GetenvInt("REDIS_DB", 0),
		RedisPrefix:   utils.Getenv("REDIS_KEY_PREFIX", "badminton:"),
		JWTSecret:     utils.Getenv("JWT_SECRET", ""),
		JWTExpiration: utils.GetenvDuration("JWT_EXPIRATION", 72*time.Hour),
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMemory, StoreDriverPostgres, StoreDriverSQLite, StoreDriverRedis:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	return nil
}
