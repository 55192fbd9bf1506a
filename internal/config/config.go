package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBConn    string
	LogLevel  string
	JWTSecret string

	// Finances
	Locale                   string
	Timezone                 string
	TrendMonths              int
	OverdueCriticalThreshold decimal.Decimal
	DashboardBaseURL         string

	// Digest e-mails
	DigestEnabled bool
	DigestCron    string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SenderEmail   string
}

// NewConfig loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func NewConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	threshold, err := decimal.NewFromString(getEnv("OVERDUE_CRITICAL_THRESHOLD", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERDUE_CRITICAL_THRESHOLD: %w", err)
	}

	cfg := &Config{
		Port:                     getEnv("PORT", "8080"),
		DBConn:                   getEnv("DB_CONN", "host=localhost port=5432 user=postgres password=postgres dbname=coliving sslmode=disable"),
		LogLevel:                 getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		Locale:                   getEnv("FINANCES_LOCALE", "fr"),
		Timezone:                 getEnv("FINANCES_TIMEZONE", "Europe/Paris"),
		TrendMonths:              getEnvAsInt("TREND_MONTHS", 6),
		OverdueCriticalThreshold: threshold,
		DashboardBaseURL:         getEnv("DASHBOARD_BASE_URL", "http://localhost:3000"),
		DigestEnabled:            getEnvAsBool("DIGEST_ENABLED", true),
		DigestCron:               getEnv("DIGEST_CRON", "0 8 * * *"),
		SMTPHost:                 getEnv("SMTP_HOST", ""),
		SMTPPort:                 getEnv("SMTP_PORT", "587"),
		SMTPUsername:             getEnv("SMTP_USERNAME", ""),
		SMTPPassword:             getEnv("SMTP_PASSWORD", ""),
		SenderEmail:              getEnv("SENDER_EMAIL", "no-reply@easyco.be"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Locale != "fr" && c.Locale != "en" {
		return fmt.Errorf("FINANCES_LOCALE must be fr or en, got %q", c.Locale)
	}
	if c.TrendMonths < 1 || c.TrendMonths > 36 {
		return fmt.Errorf("TREND_MONTHS must be between 1 and 36, got %d", c.TrendMonths)
	}
	if c.OverdueCriticalThreshold.IsNegative() {
		return fmt.Errorf("OVERDUE_CRITICAL_THRESHOLD must not be negative")
	}
	if c.DigestEnabled {
		if _, err := cron.ParseStandard(c.DigestCron); err != nil {
			return fmt.Errorf("invalid DIGEST_CRON %q: %w", c.DigestCron, err)
		}
	}
	return nil
}

// DigestConfigured reports whether the digest job has everything it needs to run.
func (c *Config) DigestConfigured() bool {
	return c.DigestEnabled && c.SMTPHost != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultVal
}
