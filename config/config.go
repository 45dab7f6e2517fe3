/*
Package config loads binary configuration from the environment and flags.

SOURCES (later wins):
  1. Built-in defaults
  2. DATAGEN_* environment variables
  3. Command-line flags

ENVIRONMENT:
  DATAGEN_START_DATE    first day to generate     (default 2024-01-01)
  DATAGEN_END_DATE      last day to generate      (default 2024-03-31)
  DATAGEN_OUTPUT_DIR    output root               (default tmp/sales_data)
  DATAGEN_SEED          run seed, 0 = random      (default 0)
  DATAGEN_WORKERS       concurrent days, 0 = CPUs (default 1)
  DATAGEN_CATALOG_PATH  YAML catalog override     (default built-in)
  DATAGEN_DB_PATH       run catalog database      (default datagen.db)
  DATAGEN_LOG_LEVEL     zerolog level             (default info)
  DATAGEN_LOG_FORMAT    console or json           (default console)
  DATAGEN_PORT          HTTP port (server only)   (default 8080)
*/
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the settings shared by cmd/datagen and cmd/server.
type Config struct {
	StartDate   string `env:"START_DATE" envDefault:"2024-01-01"`
	EndDate     string `env:"END_DATE" envDefault:"2024-03-31"`
	OutputDir   string `env:"OUTPUT_DIR" envDefault:"tmp/sales_data"`
	Seed        int64  `env:"SEED" envDefault:"0"`
	Workers     int    `env:"WORKERS" envDefault:"1"`
	CatalogPath string `env:"CATALOG_PATH"`
	DBPath      string `env:"DB_PATH" envDefault:"datagen.db"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"console"`
	Port        int    `env:"PORT" envDefault:"8080"`
}

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "DATAGEN_"

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ParseConfig reads the environment, then lets flags in args override it.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg, err := ParseEnv()
	if err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.StartDate, "start", cfg.StartDate, "first day to generate (YYYY-MM-DD)")
	fs.StringVar(&cfg.EndDate, "end", cfg.EndDate, "last day to generate (YYYY-MM-DD)")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "output root directory")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "run seed (0 = random, logged)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "days simulated concurrently (0 = GOMAXPROCS)")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "YAML catalog file (default: built-in catalog)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "run catalog SQLite path (\":memory:\" for in-memory, empty to disable)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (console|json)")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks values that flags and env cannot type-check.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// NewLogger builds the process logger. A nil out means stderr.
func (c Config) NewLogger(out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
