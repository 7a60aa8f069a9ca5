package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
	DatabaseMemory   = "memory"
)

type Config struct {
	Addr            string
	DatabaseType    string
	DatabaseURL     string
	SQLitePath      string
	JWTSecret       string
	LogLevel        string
	LogFile         string
	LegacyScanLimit int
	// Args holds the positional arguments left after the flags.
	Args []string
}

// Load reads an optional .env file, then flags, then environment variables.
// Flags win over the environment.
func Load(name string, args []string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", "", "Listen address")
	fs.StringVar(&cfg.DatabaseType, "db-type", "", "Store type (postgres, sqlite or memory)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", "", "Postgres connection string")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", "", "SQLite database file")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level")
	fs.IntVar(&cfg.LegacyScanLimit, "legacy-scan-limit", -1, "Allowlist records scanned for legacy voter codes, 0 disables")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Args = fs.Args()

	cfg.Addr = fallback(cfg.Addr, "ADDR", "0.0.0.0:8080")
	cfg.DatabaseType = fallback(cfg.DatabaseType, "DATABASE_TYPE", DatabasePostgres)
	cfg.SQLitePath = fallback(cfg.SQLitePath, "SQLITE_PATH", "elections.db")
	cfg.LogLevel = fallback(cfg.LogLevel, "LOG_LEVEL", "info")
	cfg.LogFile = os.Getenv("LOG_FILE")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	switch cfg.DatabaseType {
	case DatabasePostgres:
		cfg.DatabaseURL = fallback(cfg.DatabaseURL, "DATABASE_URL", "")
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = postgresURL()
		}
	case DatabaseSQLite, DatabaseMemory:
	default:
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	if cfg.LegacyScanLimit < 0 {
		cfg.LegacyScanLimit = 500
		if v := os.Getenv("LEGACY_SCAN_LIMIT"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return Config{}, errors.New("invalid LEGACY_SCAN_LIMIT env variable")
			}
			cfg.LegacyScanLimit = n
		}
	}

	return cfg, nil
}

// RequireJWTSecret fails for persistent stores without a token secret.
func (c Config) RequireJWTSecret() error {
	if c.JWTSecret == "" && c.DatabaseType != DatabaseMemory {
		return errors.New("JWT_SECRET required")
	}
	return nil
}

func fallback(value, env, def string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

func postgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}
