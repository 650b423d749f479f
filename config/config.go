/*
config.go - Environment-based configuration

PURPOSE:
  Loads all runtime configuration from environment variables with
  sensible defaults, so the binary runs out of the box and is tuned via
  .env in development or real env vars in deployment.

VARIABLES:
  PORT                    HTTP listen port            (default 8080)
  DB_PATH                 SQLite database file        (default commission.db)
  DEFAULT_HISTORY_MONTHS  Trend window when unset     (default 12)
  LOG_LEVEL               trace..panic                (default info)
  LOG_FORMAT              json, console               (default console)
  LOG_TIME_FORMAT         zerolog time format         (default RFC3339)
  LOG_OUTPUT              stdout, stderr, file path   (default stdout)

SEE ALSO:
  - logger/logger.go: Consumes the LOG_* values
  - cmd/root.go: Loads .env before reading these
*/
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/warp/commission-engine/logger"
)

type Config struct {
	// Server Configuration
	Port   string
	DBPath string

	// Report Configuration
	DefaultHistoryMonths int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", "commission.db"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stdout"),
	}

	raw := getEnv("DEFAULT_HISTORY_MONTHS", "12")
	months, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_HISTORY_MONTHS must be a positive integer, got %q: %w", raw, err)
	}
	if months < 1 {
		return nil, fmt.Errorf("DEFAULT_HISTORY_MONTHS must be a positive integer, got %q", raw)
	}
	config.DefaultHistoryMonths = months

	return config, nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
