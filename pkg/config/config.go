package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional - scan archive only)
	Database DatabaseConfig

	// Redis (optional - universe catalog cache)
	Redis RedisConfig

	// External data sources
	Brapi BrapiConfig
	Yahoo YahooConfig

	// Notification
	Notify NotifyConfig

	// Scan defaults
	Scan ScanDefaults

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
// The database is optional: when URL is empty the scan archive is disabled.
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// BrapiConfig holds brapi.dev catalog API configuration
type BrapiConfig struct {
	BaseURL  string
	Token    string        // optional API token
	CacheTTL time.Duration // universe list cache TTL
}

// YahooConfig holds Yahoo Finance chart API configuration
type YahooConfig struct {
	BaseURL string
	Range   string // lookback range, e.g. "1y"
	Timeout time.Duration
}

// NotifyConfig holds WhatsApp webhook configuration
type NotifyConfig struct {
	WebhookURL string
	Enabled    bool
	TopN       int
}

// ScanDefaults holds default scan criteria, overridable per run
type ScanDefaults struct {
	DeclineThreshold float64 // fraction, e.g. -0.03 = qualify at a 3% fall
	RequireBollinger bool    // require low strictly below the lower band
	EnableFibonacci  bool    // golden-zone pullback strategy
	EnableDonchian   bool    // weekly channel breakout strategy
	MinHistoryBars   int     // bars required for the long moving average
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// External data sources
		Brapi: BrapiConfig{
			BaseURL:  getEnv("BRAPI_BASE_URL", "https://brapi.dev/api"),
			Token:    getEnv("BRAPI_TOKEN", ""),
			CacheTTL: getEnvAsDuration("BRAPI_CACHE_TTL", "1h"),
		},
		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			Range:   getEnv("YAHOO_RANGE", "1y"),
			Timeout: getEnvAsDuration("YAHOO_TIMEOUT", "60s"),
		},

		// Notification
		Notify: NotifyConfig{
			WebhookURL: getEnv("WHATSAPP_WEBHOOK_URL", ""),
			Enabled:    getEnvAsBool("NOTIFY_ENABLED", false),
			TopN:       getEnvAsInt("NOTIFY_TOP_N", 5),
		},

		// Scan defaults
		Scan: ScanDefaults{
			DeclineThreshold: getEnvAsFloat("SCAN_DECLINE_THRESHOLD", -0.03),
			RequireBollinger: getEnvAsBool("SCAN_REQUIRE_BOLLINGER", false),
			EnableFibonacci:  getEnvAsBool("SCAN_ENABLE_FIBONACCI", false),
			EnableDonchian:   getEnvAsBool("SCAN_ENABLE_DONCHIAN", false),
			MinHistoryBars:   getEnvAsInt("SCAN_MIN_HISTORY_BARS", 200),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are consistent
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Scan.DeclineThreshold > 0 {
		return fmt.Errorf("SCAN_DECLINE_THRESHOLD must be zero or negative, got %v", c.Scan.DeclineThreshold)
	}

	if c.Notify.Enabled && c.Notify.WebhookURL == "" {
		return fmt.Errorf("WHATSAPP_WEBHOOK_URL is required when NOTIFY_ENABLED=true")
	}

	return nil
}

// ArchiveEnabled reports whether scan results should be persisted
func (c *Config) ArchiveEnabled() bool {
	return c.Database.URL != ""
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
