package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Store backends accepted in STORE_BACKEND.
const (
	BackendFile     = "file"
	BackendHTTP     = "http"
	BackendPostgres = "postgres"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port              string
	StoreBackend      string
	DataPath          string
	RosterURL         string
	RosterAPIKey      string
	RosterTimeoutSecs int
	ReadTimeoutSecs   int
	WriteTimeoutSecs  int
	IdleTimeoutSecs   int
	DBURL             string
	DBMaxConns        int
	DBMinConns        int
	DBMaxIdleSecs     int
	DBMaxLifeSecs     int
	DBConnTimeoutSecs int
	DBStatementCache  int
	LogLevel          string
	LogFormat         string
}

// Load reads configuration from environment variables, applying defaults and validation.
// A .env file in the working directory is read first; variables already set win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Port:              getEnv("PORT", "3000"),
		StoreBackend:      getEnv("STORE_BACKEND", BackendFile),
		DataPath:          getEnv("DATA_PATH", "data/users.json"),
		RosterURL:         os.Getenv("ROSTER_URL"),
		RosterAPIKey:      os.Getenv("ROSTER_API_KEY"),
		RosterTimeoutSecs: getEnvInt("ROSTER_TIMEOUT_SECS", 5),
		ReadTimeoutSecs:   getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:  getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:   getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		DBURL:             os.Getenv("DB_URL"),
		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 1),
		DBMaxIdleSecs:     getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:     getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs: getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:  getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 256),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "auto"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints for the selected backend.
func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.ReadTimeoutSecs <= 0 || c.WriteTimeoutSecs <= 0 || c.IdleTimeoutSecs <= 0 {
		return fmt.Errorf("SERVER_*_TIMEOUT values must be positive")
	}

	switch c.StoreBackend {
	case BackendFile:
		if c.DataPath == "" {
			return fmt.Errorf("DATA_PATH is required for the file backend")
		}
	case BackendHTTP:
		if c.RosterURL == "" {
			return fmt.Errorf("ROSTER_URL is required for the http backend")
		}
		if c.RosterTimeoutSecs <= 0 {
			return fmt.Errorf("ROSTER_TIMEOUT_SECS must be positive")
		}
	case BackendPostgres:
		if c.DBURL == "" {
			return fmt.Errorf("DB_URL is required for the postgres backend")
		}
		if c.DBMaxConns <= 0 {
			return fmt.Errorf("DB_MAX_CONNS must be positive")
		}
		if c.DBMinConns < 0 {
			return fmt.Errorf("DB_MIN_CONNS must be non-negative")
		}
		if c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
		}
		if c.DBStatementCache < 0 {
			return fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of file, http, postgres; got %q", c.StoreBackend)
	}

	switch c.LogFormat {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be one of auto, console, json; got %q", c.LogFormat)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
