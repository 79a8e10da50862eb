// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// DefaultRatesAddress is the built-in rate-source address, used whenever no
// override is stored in settings.
const DefaultRatesAddress = "https://rates.omri-harel.dev/latest.json"

type Config struct {
	// HTTP server
	Port string

	// Record store
	StoreBackend string // "badger" or "sqlite"
	BadgerPath   string
	SQLiteDBPath string

	// Rate source
	RatesAddress string

	// Logging
	LogLevel string
}

// Load reads the configuration from the environment, applying defaults for
// anything unset.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		StoreBackend: getEnv("STORE_BACKEND", "badger"),
		BadgerPath:   getEnv("BADGER_PATH", "./data/badger"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/costs.db"),
		RatesAddress: getEnv("RATES_URL", DefaultRatesAddress),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.StoreBackend {
	case "badger", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("invalid store backend '%s': must be 'badger' or 'sqlite'", c.StoreBackend))
	}

	if c.StoreBackend == "badger" && c.BadgerPath == "" {
		errs = append(errs, "badger path cannot be empty when using the badger backend")
	}
	if c.StoreBackend == "sqlite" && c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty when using the sqlite backend")
	}

	if parsed, err := url.Parse(c.RatesAddress); err != nil {
		errs = append(errs, fmt.Sprintf("invalid rates URL '%s': %v", c.RatesAddress, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("invalid rates URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
