// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Cache and history backend names.
const (
	BackendFile   = "file"
	BackendValkey = "valkey"
	BackendSQLite = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Cache    CacheConfig
	Valkey   ValkeyConfig
	History  HistoryConfig
	Stream   StreamConfig
	Logging  LoggingConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" envDefault:"3000"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	PublicDir    string        `env:"SERVER_PUBLIC_DIR" envDefault:"public"`
}

// ProviderConfig holds the flight-offers API settings.
type ProviderConfig struct {
	APIKey    string        `env:"AMADEUS_API_KEY"`
	APISecret string        `env:"AMADEUS_API_SECRET"`
	BaseURL   string        `env:"AMADEUS_BASE_URL" envDefault:"https://test.api.amadeus.com"`
	Timeout   time.Duration `env:"TIMEOUT_PROVIDER" envDefault:"15s"`
}

// CacheConfig holds price cache settings.
type CacheConfig struct {
	Backend string        `env:"CACHE_BACKEND" envDefault:"file"`
	File    string        `env:"CACHE_FILE" envDefault:"cache/flightCache.json"`
	TTL     time.Duration `env:"CACHE_TTL" envDefault:"24h"`
}

// ValkeyConfig is only read when CACHE_BACKEND=valkey.
type ValkeyConfig struct {
	Address   string `env:"VALKEY_ADDRESS" envDefault:"localhost:6379"`
	Password  string `env:"VALKEY_PASSWORD"`
	DB        int    `env:"VALKEY_DB" envDefault:"0"`
	KeyPrefix string `env:"VALKEY_KEY_PREFIX" envDefault:"airfare"`
}

// HistoryConfig holds search history settings.
type HistoryConfig struct {
	Backend    string `env:"HISTORY_BACKEND" envDefault:"file"`
	Dir        string `env:"HISTORY_DIR" envDefault:"history"`
	SQLitePath string `env:"HISTORY_SQLITE_PATH" envDefault:"history/history.db"`
	MaxEntries int    `env:"HISTORY_MAX_ENTRIES" envDefault:"50"`
}

// StreamConfig holds progress stream settings.
type StreamConfig struct {
	Keepalive time.Duration `env:"STREAM_KEEPALIVE" envDefault:"15s"`
	Buffer    int           `env:"STREAM_BUFFER" envDefault:"64"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
// Use this in main() where configuration is required to start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive")
	}
	if cfg.Provider.Timeout <= 0 {
		return fmt.Errorf("TIMEOUT_PROVIDER must be positive")
	}
	if cfg.Provider.BaseURL == "" {
		return fmt.Errorf("AMADEUS_BASE_URL must not be empty")
	}

	validCaches := map[string]bool{BackendFile: true, BackendValkey: true}
	if !validCaches[cfg.Cache.Backend] {
		return fmt.Errorf("CACHE_BACKEND must be one of: file, valkey; got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if cfg.Cache.Backend == BackendValkey && cfg.Valkey.Address == "" {
		return fmt.Errorf("VALKEY_ADDRESS is required when CACHE_BACKEND=valkey")
	}
	if cfg.Valkey.DB < 0 {
		return fmt.Errorf("VALKEY_DB must not be negative, got %d", cfg.Valkey.DB)
	}

	validHistories := map[string]bool{BackendFile: true, BackendSQLite: true}
	if !validHistories[cfg.History.Backend] {
		return fmt.Errorf("HISTORY_BACKEND must be one of: file, sqlite; got %q", cfg.History.Backend)
	}
	if cfg.History.MaxEntries < 1 {
		return fmt.Errorf("HISTORY_MAX_ENTRIES must be at least 1, got %d", cfg.History.MaxEntries)
	}

	if cfg.Stream.Keepalive <= 0 {
		return fmt.Errorf("STREAM_KEEPALIVE must be positive")
	}
	if cfg.Stream.Buffer < 1 {
		return fmt.Errorf("STREAM_BUFFER must be at least 1, got %d", cfg.Stream.Buffer)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	return nil
}

// HasProviderCredentials reports whether both API credentials are set.
func (c *Config) HasProviderCredentials() bool {
	return c.Provider.APIKey != "" && c.Provider.APISecret != ""
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
