// Package config loads the task logger configuration from environment
// variables with defaults, and validates it before the server starts.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//
// Spreadsheet:
//   - SHEET_NAME: Display name of the spreadsheet (default: SeaverStrike Task Log)
//   - SPREADSHEET_ID: Spreadsheet ID; skips the lookup by name when set
//   - GOOGLE_SERVICE_ACCOUNT_JSON: Service-account key JSON, read on first use
//   - SHEETS_BACKEND: google, sqlite or memory (default: google)
//   - SQLITE_PATH: Row store path for the sqlite backend (default: ./task_log.db)
//
// Authorization:
//   - API_KEY: Bearer token required on /add_task; empty disables authorization
//
// Duplicate suppression:
//   - DEDUPE_WINDOW: Lookback duration (default: 24h)
//   - DEDUPE_LOOKBACK: Number of trailing rows scanned (default: 150)
//
// Rate limiting:
//   - RATE_LIMIT_ENABLED: Enable rate limiting on /add_task (default: false)
//   - RATE_LIMIT_DEFAULT: Requests allowed per window (default: 60)
//   - RATE_LIMIT_WINDOW: Rate limit window (default: 60s)
//   - RATE_LIMIT_TRUST_PROXY: Key clients by X-Forwarded-For/X-Real-IP (default: false)
//   - REDIS_ADDRESS: Redis address for shared limits; empty keeps limits in-process
//   - REDIS_PASSWORD, REDIS_DB (0), REDIS_POOL_SIZE (10)
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	BackendGoogle = "google"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds all configuration values for the task logger.
type Config struct {
	Port     string
	LogLevel string

	// Spreadsheet
	SheetName          string
	SpreadsheetID      string
	ServiceAccountJSON string
	SheetsBackend      string
	SQLitePath         string

	// Bearer token for /add_task; empty means open mode
	APIKey string

	// Duplicate suppression
	DedupeWindow   time.Duration
	DedupeLookback int

	// Rate limiting
	RateLimitEnabled bool
	RateLimitDefault string
	RateLimitWindow  string

	// Only set behind a proxy that rewrites forwarding headers
	RateLimitTrustProxy bool

	// Redis
	RedisAddress  string
	RedisPassword string
	RedisDB       string
	RedisPoolSize string
}

// Load creates a Config from environment variables. It does not validate;
// call Validate on the result.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SheetName:          getEnv("SHEET_NAME", "SeaverStrike Task Log"),
		SpreadsheetID:      getEnv("SPREADSHEET_ID", ""),
		ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		SheetsBackend:      getEnv("SHEETS_BACKEND", BackendGoogle),
		SQLitePath:         getEnv("SQLITE_PATH", "./task_log.db"),

		APIKey: os.Getenv("API_KEY"),

		DedupeWindow:   getDurationEnv("DEDUPE_WINDOW", 24*time.Hour),
		DedupeLookback: getIntEnv("DEDUPE_LOOKBACK", 150),

		RateLimitEnabled:    getBoolEnv("RATE_LIMIT_ENABLED", false),
		RateLimitDefault:    getEnv("RATE_LIMIT_DEFAULT", "60"),
		RateLimitWindow:     getEnv("RATE_LIMIT_WINDOW", "60s"),
		RateLimitTrustProxy: getBoolEnv("RATE_LIMIT_TRUST_PROXY", false),

		RedisAddress:  getEnv("REDIS_ADDRESS", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),
		RedisPoolSize: getEnv("REDIS_POOL_SIZE", "10"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate checks field formats and cross-field requirements. The service
// account JSON is not checked here; the gateway reads it on first use.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	switch c.SheetsBackend {
	case BackendGoogle:
		if c.SheetName == "" && c.SpreadsheetID == "" {
			return fmt.Errorf("SHEET_NAME or SPREADSHEET_ID is required for the google backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("SHEETS_BACKEND must be 'google', 'sqlite' or 'memory'")
	}

	if c.DedupeWindow <= 0 {
		return fmt.Errorf("DEDUPE_WINDOW must be a positive duration")
	}
	if c.DedupeLookback < 1 {
		return fmt.Errorf("DEDUPE_LOOKBACK must be a positive number")
	}

	if c.RedisAddress != "" {
		if db, err := strconv.Atoi(c.RedisDB); err != nil || db < 0 || db > 15 {
			return fmt.Errorf("REDIS_DB must be a number between 0 and 15")
		}
		if poolSize, err := strconv.Atoi(c.RedisPoolSize); err != nil || poolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be a positive number")
		}
	}

	if c.RateLimitEnabled {
		if limit, err := strconv.Atoi(c.RateLimitDefault); err != nil || limit < 1 {
			return fmt.Errorf("RATE_LIMIT_DEFAULT must be a positive number")
		}
		if _, err := time.ParseDuration(c.RateLimitWindow); err != nil {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be a valid duration (e.g., '60s', '1m')")
		}
	}

	return nil
}

// AuthEnabled reports whether /add_task requires a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.APIKey != ""
}
