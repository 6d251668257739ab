package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Resolver  ResolverConfig
	Fallback  FallbackConfig
	Cache     CacheConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8600"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// ResolverConfig holds browser resolution configuration.
type ResolverConfig struct {
	Driver        string        `envconfig:"RESOLVER_DRIVER" default:"chrome"`
	NavTimeout    time.Duration `envconfig:"RESOLVER_NAV_TIMEOUT" default:"30s"`
	StartPage     string        `envconfig:"RESOLVER_START_PAGE" default:"https://www.google.com"`
	ScanLimit     int           `envconfig:"RESOLVER_SCAN_LIMIT" default:"100"`
	CandidateCap  int           `envconfig:"RESOLVER_CANDIDATE_CAP" default:"20"`
	WarmStart     bool          `envconfig:"RESOLVER_WARM_START" default:"false"`
	ProfileDir    string        `envconfig:"RESOLVER_PROFILE_DIR" default:""`
	DomainOverlay string        `envconfig:"RESOLVER_DOMAIN_OVERLAY" default:""`
}

// FallbackConfig holds fallback chain configuration.
type FallbackConfig struct {
	SearchEnabled   bool   `envconfig:"FALLBACK_SEARCH_ENABLED" default:"true"`
	HomepageEnabled bool   `envconfig:"FALLBACK_HOMEPAGE_ENABLED" default:"true"`
	SearchTemplate  string `envconfig:"FALLBACK_SEARCH_TEMPLATE" default:"https://duckduckgo.com/html/?q=%s"`
}

// CacheConfig holds resolution cache configuration.
type CacheConfig struct {
	TTL        time.Duration `envconfig:"CACHE_TTL" default:"15m"`
	MaxEntries int           `envconfig:"CACHE_MAX_ENTRIES" default:"100"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"20"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"40"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8600",
			Host: "0.0.0.0",
		},
		Resolver: ResolverConfig{
			Driver:       "chrome",
			NavTimeout:   30 * time.Second,
			StartPage:    "https://www.google.com",
			ScanLimit:    100,
			CandidateCap: 20,
		},
		Fallback: FallbackConfig{
			SearchEnabled:   true,
			HomepageEnabled: true,
			SearchTemplate:  "https://duckduckgo.com/html/?q=%s",
		},
		Cache: CacheConfig{
			TTL:        15 * time.Minute,
			MaxEntries: 100,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			Enabled:           true,
		},
	}
}
