// Package common provides shared utilities for ledgerd
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for ledgerd
type Config struct {
	Environment     string         `toml:"environment"`
	DisplayCurrency string         `toml:"display_currency"` // Display currency for portfolio totals ("GBP" or "USD", default "GBP")
	Server          ServerConfig   `toml:"server"`
	Storage         StorageConfig  `toml:"storage"`
	Clients         ClientsConfig  `toml:"clients"`
	Backfill        BackfillConfig `toml:"backfill"`
	Logging         LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration.
type StorageConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD EODHDConfig `toml:"eodhd"`
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// BackfillConfig holds pacing configuration for the price-history backfill.
// Delays are duration strings; zero values fall back to the defaults below.
type BackfillConfig struct {
	RetryDelay  string `toml:"retry_delay"`  // wait after a rate-limit response (default "2s")
	ChunkDelay  string `toml:"chunk_delay"`  // pause between year chunks (default "250ms")
	SymbolDelay string `toml:"symbol_delay"` // pause between symbols (default "1s")
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// GetRetryDelay returns the parsed rate-limit retry delay.
func (c *BackfillConfig) GetRetryDelay() time.Duration {
	return parseDurationOr(c.RetryDelay, 2*time.Second)
}

// GetChunkDelay returns the parsed inter-chunk delay.
func (c *BackfillConfig) GetChunkDelay() time.Duration {
	return parseDurationOr(c.ChunkDelay, 250*time.Millisecond)
}

// GetSymbolDelay returns the parsed inter-symbol delay.
func (c *BackfillConfig) GetSymbolDelay() time.Duration {
	return parseDurationOr(c.SymbolDelay, time.Second)
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment:     "development",
		DisplayCurrency: "GBP",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000",
			Namespace: "ledgerd",
			Database:  "ledgerd",
			Username:  "root",
			Password:  "root",
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
		},
		Backfill: BackfillConfig{
			RetryDelay:  "2s",
			ChunkDelay:  "250ms",
			SymbolDelay: "1s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateDisplayCurrency(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LEDGERD_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("LEDGERD_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("LEDGERD_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("LEDGERD_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("LEDGERD_DB_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if user := os.Getenv("LEDGERD_DB_USERNAME"); user != "" {
		config.Storage.Username = user
	}
	if pass := os.Getenv("LEDGERD_DB_PASSWORD"); pass != "" {
		config.Storage.Password = pass
	}

	if key := os.Getenv("LEDGERD_EODHD_API_KEY"); key != "" {
		config.Clients.EODHD.APIKey = key
	} else if key := os.Getenv("EODHD_API_KEY"); key != "" {
		config.Clients.EODHD.APIKey = key
	}

	if dc := os.Getenv("LEDGERD_DISPLAY_CURRENCY"); dc != "" {
		config.DisplayCurrency = strings.ToUpper(dc)
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// validateDisplayCurrency ensures DisplayCurrency is "GBP" or "USD", defaulting to "GBP".
func validateDisplayCurrency(config *Config) {
	dc := strings.ToUpper(config.DisplayCurrency)
	if dc != "GBP" && dc != "USD" {
		dc = "GBP"
	}
	config.DisplayCurrency = dc
}
