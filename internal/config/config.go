// Copyright (c) 2026 Raay Training & Consulting
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL   string `env:"RAAY_API_BASE_URL,required"`
	DashboardURL string `env:"RAAY_DASHBOARD_URL" envDefault:"https://dashboard.raay.sa"`
	DBPath       string `env:"RAAY_DB_PATH" envDefault:"./data/raay.db"`
	ServerHost   string `env:"RAAY_SERVER_HOST" envDefault:"localhost"`
	ServerPort   int    `env:"RAAY_SERVER_PORT" envDefault:"8080"`
	Env          string `env:"RAAY_ENV" envDefault:"development"`
	LogLevel     string `env:"RAAY_LOG_LEVEL" envDefault:"info"`

	// Locale configuration
	DefaultLanguage string `env:"RAAY_DEFAULT_LANG" envDefault:"ar"`

	// Cache configuration
	RedisURL     string `env:"RAAY_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"RAAY_CACHE_PREFIX" envDefault:"raay:"`   // Redis key prefix
	CacheTTL     int    `env:"RAAY_CACHE_TTL" envDefault:"60"`         // Freshness window in seconds
	CacheMaxSize int    `env:"RAAY_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Session configuration
	SessionSecret string `env:"RAAY_SESSION_SECRET,required"`

	// Rate limiting for mutation endpoints
	InterestRPS   float64 `env:"RAAY_INTEREST_RPS" envDefault:"1"`
	InterestBurst int     `env:"RAAY_INTEREST_BURST" envDefault:"5"`
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return nil, fmt.Errorf("RAAY_API_BASE_URL is not a valid URL: %w", err)
	}
	if _, err := url.ParseRequestURI(cfg.DashboardURL); err != nil {
		return nil, fmt.Errorf("RAAY_DASHBOARD_URL is not a valid URL: %w", err)
	}

	// Trailing slashes break path joining in the upstream client
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.DashboardURL = strings.TrimRight(cfg.DashboardURL, "/")

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("RAAY_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	if cfg.DefaultLanguage != "ar" && cfg.DefaultLanguage != "en" {
		return nil, fmt.Errorf("RAAY_DEFAULT_LANG must be %q or %q, got %q", "ar", "en", cfg.DefaultLanguage)
	}

	return cfg, nil
}
