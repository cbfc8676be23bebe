// Package common provides shared utilities for Stockdeck
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultTickers is the built-in candidate list offered for selection on the
// dashboard. Overridable via the [dashboard] tickers config key.
var DefaultTickers = []string{
	"RELIANCE.NS", "TARIL.NS", "TIL.NS", "TCS.NS", "HDFCBANK.NS",
	"INFY.NS", "ICICIBANK.NS", "ITC.NS", "SBIN.NS", "BAJFINANCE.NS", "LT.NS",
}

// Config holds all configuration for Stockdeck
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Dashboard   DashboardConfig `toml:"dashboard"`
	Clients     ClientsConfig   `toml:"clients"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DashboardConfig holds dashboard behaviour configuration.
type DashboardConfig struct {
	Tickers      []string `toml:"tickers"`       // candidate ticker list for selection
	LookbackDays int      `toml:"lookback_days"` // history window for charts and beta
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo YahooConfig `toml:"yahoo"`
}

// YahooConfig holds Yahoo Finance client configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Dashboard: DashboardConfig{
			Tickers:      append([]string(nil), DefaultTickers...),
			LookbackDays: 180,
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				RateLimit: 5,
				Timeout:   "30s",
			},
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

	if config.Dashboard.LookbackDays <= 0 {
		config.Dashboard.LookbackDays = 180
	}
	if len(config.Dashboard.Tickers) == 0 {
		config.Dashboard.Tickers = append([]string(nil), DefaultTickers...)
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STOCKDECK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("STOCKDECK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("STOCKDECK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("STOCKDECK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if days := os.Getenv("STOCKDECK_LOOKBACK_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil && d > 0 {
			config.Dashboard.LookbackDays = d
		}
	}

	if tickers := os.Getenv("STOCKDECK_TICKERS"); tickers != "" {
		parts := strings.Split(tickers, ",")
		list := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.ToUpper(strings.TrimSpace(p)); t != "" {
				list = append(list, t)
			}
		}
		if len(list) > 0 {
			config.Dashboard.Tickers = list
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
