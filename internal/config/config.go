package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Ledger   LedgerConfig
	Stock    StockConfig
	Mail     MailConfig
	Admin    AdminConfig
	Database DatabaseConfig
}

type ServerConfig struct {
	AppEnv string
	Port   string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type LedgerConfig struct {
	Path string
	// ImportColumns is "full" or "legacy" (id, name, category, quantity only).
	ImportColumns string
}

type StockConfig struct {
	LowStockThreshold  int
	DefaultThreshold   int
	PerRecordThreshold bool
}

type MailConfig struct {
	Driver         string // smtp, sendgrid or none
	Host           string
	Port           int
	Username       string
	Password       string
	Recipient      string
	SendGridAPIKey string
	DialTimeout    time.Duration
}

type AdminConfig struct {
	PasswordHash string
	Password     string
	JWTSecret    string
	TokenTTL     time.Duration
}

type DatabaseConfig struct {
	URL string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv: getEnv("APP_ENV", "production"),
			Port:   getEnv("PORT", "3000"),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOGGER_LEVEL", "info"),
			Encoding: getEnv("LOGGER_ENCODING", ""),
		},
		Ledger: LedgerConfig{
			Path:          getEnv("LEDGER_PATH", "./ledger.xlsx"),
			ImportColumns: strings.ToLower(getEnv("LEDGER_IMPORT_COLUMNS", "full")),
		},
		Stock: StockConfig{
			LowStockThreshold:  getEnvInt("LOW_STOCK_THRESHOLD", 5),
			DefaultThreshold:   getEnvInt("DEFAULT_THRESHOLD", 5),
			PerRecordThreshold: getEnvBool("LOW_STOCK_PER_RECORD", false),
		},
		Mail: MailConfig{
			Driver:         strings.ToLower(getEnv("MAIL_DRIVER", "smtp")),
			Host:           getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:           getEnvInt("SMTP_PORT", 587),
			Username:       getEnv("GMAIL_USER", ""),
			Password:       getEnv("GMAIL_APP_PASSWORD", ""),
			Recipient:      getEnv("MAIL_RECIPIENT", ""),
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			DialTimeout:    time.Duration(getEnvInt("MAIL_DIAL_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Admin: AdminConfig{
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			Password:     getEnv("ADMIN_PASSWORD", ""),
			JWTSecret:    getEnv("JWT_SECRET", ""),
			TokenTTL:     time.Duration(getEnvInt("ADMIN_TOKEN_TTL_MINUTES", 30)) * time.Minute,
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
	}
}

// IsDevelopment reports whether APP_ENV selects the development logger.
func (c *Config) IsDevelopment() bool {
	switch c.Server.AppEnv {
	case "dev", "development", "local":
		return true
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return fallback
}
