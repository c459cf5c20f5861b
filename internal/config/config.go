package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ProviderConfig describes how to reach the video search provider
type ProviderConfig struct {
	Name    string        `json:"name"`
	APIKey  string        `json:"-"`
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// Config holds all configuration for the application
type Config struct {
	// Application settings
	Port           string        `envconfig:"PORT" default:"8080"`
	GinMode        string        `envconfig:"GIN_MODE" default:"debug"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// YouTube Data API v3
	YouTubeAPIKey  string        `envconfig:"YOUTUBE_API_KEY"`
	YouTubeBaseURL string        `envconfig:"YOUTUBE_BASE_URL" default:"https://www.googleapis.com/youtube/v3"`
	YouTubeTimeout time.Duration `envconfig:"YOUTUBE_TIMEOUT" default:"10s"`

	// Optional shared cache tiers; empty disables the tier
	ValkeyURL     string `envconfig:"VALKEY_URL"`
	MongodbURL    string `envconfig:"MONGODB_URL"`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"moodtunes"`

	// In-process result cache cap; 0 keeps it unbounded
	CacheMaxItems int `envconfig:"CACHE_MAX_ITEMS" default:"0"`

	// Location of the TOML tuning file; empty means auto-discover
	TuningConfigPath string `envconfig:"TUNING_CONFIG_PATH"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.YouTubeTimeout <= 0 {
		return nil, fmt.Errorf("YOUTUBE_TIMEOUT must be positive, got %s", cfg.YouTubeTimeout)
	}
	if cfg.CacheMaxItems < 0 {
		return nil, fmt.Errorf("CACHE_MAX_ITEMS cannot be negative")
	}

	cfg.YouTubeAPIKey = strings.TrimSpace(cfg.YouTubeAPIKey)
	return &cfg, nil
}

// Provider returns the YouTube provider settings
func (c *Config) Provider() ProviderConfig {
	return ProviderConfig{
		Name:    "youtube",
		APIKey:  c.YouTubeAPIKey,
		BaseURL: strings.TrimRight(c.YouTubeBaseURL, "/"),
		Timeout: c.YouTubeTimeout,
	}
}

// Validate checks a provider configuration before a client is built from it
func (p ProviderConfig) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if p.APIKey == "" {
		return fmt.Errorf("%s requires an API key", p.Name)
	}
	if p.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
