package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// StoreDriver names a counter store backend.
type StoreDriver string

const (
	DriverMemory   StoreDriver = "memory"
	DriverPostgres StoreDriver = "postgres"
	DriverRedis    StoreDriver = "redis"
	DriverSheets   StoreDriver = "sheets"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Sheets   SheetsConfig
	Admin    AdminConfig
	App      AppConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" required:"true"`
	Host            string        `envconfig:"SERVER_HOST" required:"true"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"5s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// StoreConfig selects which counter store backend to run against.
type StoreConfig struct {
	Driver StoreDriver `envconfig:"STORE_DRIVER" default:"memory"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case DriverMemory, DriverPostgres, DriverRedis, DriverSheets:
		return nil
	default:
		return fmt.Errorf("invalid store driver: %s (must be one of: memory, postgres, redis, sheets)", c.Driver)
	}
}

// DatabaseConfig holds Postgres connection configuration.
// Only validated when STORE_DRIVER=postgres.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.User == "" {
		return fmt.Errorf("user cannot be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if c.MaxConns <= 0 {
		return fmt.Errorf("max connections must be positive")
	}
	if c.MinConns <= 0 {
		return fmt.Errorf("min connections must be positive")
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("min connections (%d) cannot be greater than max connections (%d)", c.MinConns, c.MaxConns)
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid SSL mode: %s (must be one of: disable, require, verify-ca, verify-full)", c.SSLMode)
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig holds Redis connection configuration.
// Only validated when STORE_DRIVER=redis.
type RedisConfig struct {
	Addr      string `envconfig:"REDIS_ADDR"`
	Password  string `envconfig:"REDIS_PASSWORD"`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"counts:"`
}

// Validate validates the redis configuration.
func (c *RedisConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr cannot be empty")
	}
	if c.DB < 0 {
		return fmt.Errorf("db cannot be negative")
	}
	if c.KeyPrefix == "" {
		return fmt.Errorf("key prefix cannot be empty")
	}
	return nil
}

// SheetsConfig holds Google Sheets backend configuration.
// Only validated when STORE_DRIVER=sheets.
type SheetsConfig struct {
	SpreadsheetID   string `envconfig:"SHEETS_SPREADSHEET_ID"`
	SheetName       string `envconfig:"SHEETS_SHEET_NAME" default:"counts"`
	CredentialsFile string `envconfig:"SHEETS_CREDENTIALS_FILE"`
}

// Validate validates the sheets configuration.
func (c *SheetsConfig) Validate() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet id cannot be empty")
	}
	if c.SheetName == "" {
		return fmt.Errorf("sheet name cannot be empty")
	}
	return nil
}

// AdminConfig holds operator-only settings.
type AdminConfig struct {
	// ResetToken guards the reset endpoint. Empty disables resets.
	ResetToken string `envconfig:"ADMIN_RESET_TOKEN"`
}

// Validate validates the admin configuration.
func (c *AdminConfig) Validate() error {
	return nil
}

// AppConfig holds application-specific configuration.
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" required:"true"`   // development, staging, production, test
	LogLevel    string `envconfig:"LOG_LEVEL" required:"true"` // debug, info, warn, error
}

// Validate validates the app configuration.
func (c *AppConfig) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Environment)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// Load loads configuration from environment variables only.
// (Do .env loading in internal/app for dev, not here.)
// Backend sections are validated only for the selected store driver.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load Server config: %w", err)
	}
	if err := cfg.Server.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Server config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Store); err != nil {
		return nil, fmt.Errorf("failed to load Store config: %w", err)
	}
	if err := cfg.Store.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Store config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to load Database config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Redis); err != nil {
		return nil, fmt.Errorf("failed to load Redis config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Sheets); err != nil {
		return nil, fmt.Errorf("failed to load Sheets config: %w", err)
	}

	switch cfg.Store.Driver {
	case DriverPostgres:
		if err := cfg.Database.Validate(); err != nil {
			return nil, fmt.Errorf("invalid Database config: %w", err)
		}
	case DriverRedis:
		if err := cfg.Redis.Validate(); err != nil {
			return nil, fmt.Errorf("invalid Redis config: %w", err)
		}
	case DriverSheets:
		if err := cfg.Sheets.Validate(); err != nil {
			return nil, fmt.Errorf("invalid Sheets config: %w", err)
		}
	}

	if err := envconfig.Process("", &cfg.Admin); err != nil {
		return nil, fmt.Errorf("failed to load Admin config: %w", err)
	}
	if err := cfg.Admin.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Admin config: %w", err)
	}

	if err := envconfig.Process("", &cfg.App); err != nil {
		return nil, fmt.Errorf("failed to load App config: %w", err)
	}
	if err := cfg.App.Validate(); err != nil {
		return nil, fmt.Errorf("invalid App config: %w", err)
	}

	return cfg, nil
}
