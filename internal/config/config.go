// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, timeouts, and cache settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Branding
	BrandName string // Brand shown in replies and advisor notices
	BotName   string // Assistant name used in the greeting

	// Course sheet
	SheetCSVURL  string        // Published CSV URL of the course sheet (empty = empty catalog)
	SheetTimeout time.Duration // HTTP timeout for sheet fetches
	CatalogTTL   time.Duration // Snapshot freshness window

	// Twilio / advisor handoff
	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string // Sending number, "whatsapp:+..." form
	AdvisorNumber        string // Destination for lead notices
	NotifyTimeout        time.Duration

	// Sessions
	SessionTTL time.Duration // Per-sender course memory lifetime

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Abuse protection
	RateLimitPerMinute int // messages per sender per minute, 0 disables
	RateLimitBurst     int

	// Lead log (optional SQLite audit trail of handoffs)
	LeadLogPath string // empty disables the lead log

	// Observability
	BetterstackToken    string // empty disables log shipping
	BetterstackEndpoint string
	SentryToken         string // empty disables error tracking
	SentryHost          string
	Environment         string
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		BrandName: getEnv("BRAND_NAME", "Motiva Educacion"),
		BotName:   getEnv("BOT_NAME", "el asistente"),

		SheetCSVURL:  getEnv("SHEET_CSV_URL", ""),
		SheetTimeout: getDurationEnv("SHEET_TIMEOUT", 15*time.Second),
		CatalogTTL:   getDurationEnv("CATALOG_TTL", 300*time.Second),

		TwilioAccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppNumber: getEnv("TWILIO_WHATSAPP_NUMBER", ""),
		AdvisorNumber:        getEnv("ADMIN_FORWARD_NUMBER", ""),
		NotifyTimeout:        getDurationEnv("NOTIFY_TIMEOUT", 15*time.Second),

		SessionTTL: getDurationEnv("SESSION_TTL", time.Hour),

		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),

		RateLimitPerMinute: getIntEnv("RATE_LIMIT_PER_MINUTE", 20),
		RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 5),

		LeadLogPath: getEnv("LEAD_LOG_PATH", ""),

		BetterstackToken:    getEnv("BETTERSTACK_TOKEN", ""),
		BetterstackEndpoint: getEnv("BETTERSTACK_ENDPOINT", ""),
		SentryToken:         getEnv("SENTRY_TOKEN", ""),
		SentryHost:          getEnv("SENTRY_HOST", ""),
		Environment:         getEnv("ENVIRONMENT", "production"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration consistency. Optional values (sheet URL,
// Twilio credentials, observability tokens) may be absent; the service
// degrades gracefully without them.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.BrandName == "" {
		errs = append(errs, errors.New("BRAND_NAME cannot be empty"))
	}
	if c.CatalogTTL <= 0 {
		errs = append(errs, fmt.Errorf("CATALOG_TTL must be positive, got %v", c.CatalogTTL))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %v", c.SessionTTL))
	}
	if c.SheetTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHEET_TIMEOUT must be positive, got %v", c.SheetTimeout))
	}
	if c.NotifyTimeout <= 0 {
		errs = append(errs, fmt.Errorf("NOTIFY_TIMEOUT must be positive, got %v", c.NotifyTimeout))
	}
	if c.RateLimitPerMinute > 0 && c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimitBurst))
	}
	if c.SentryToken != "" && c.SentryHost == "" {
		errs = append(errs, errors.New("SENTRY_HOST is required when SENTRY_TOKEN is set"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// NotifierConfigured reports whether all Twilio credentials for the advisor
// handoff are present.
func (c *Config) NotifierConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" &&
		c.TwilioWhatsAppNumber != "" && c.AdvisorNumber != ""
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
