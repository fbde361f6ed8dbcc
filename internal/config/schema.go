package config

import (
	"time"

	"github.com/talentwire/cvscan/internal/providers"
)

// Config holds cvscan configuration.
// Stored at: config.yaml (or the path passed with --config)
type Config struct {
	Providers map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults  DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
}

// ProviderCfg configures an LLM provider.
type ProviderCfg struct {
	Type       string `mapstructure:"type" yaml:"type"`             // "openrouter", "openai"
	Model      string `mapstructure:"model" yaml:"model"`           // Model name
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`       // API key (supports ${ENV_VAR} syntax)
	RateLimit  int    `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per minute
	TimeoutSec int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries int    `mapstructure:"max_retries" yaml:"max_retries"`
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies pipeline defaults.
type DefaultsCfg struct {
	Provider    string  `mapstructure:"provider" yaml:"provider"`       // Default LLM provider
	MaxWorkers  int     `mapstructure:"max_workers" yaml:"max_workers"` // Concurrent documents
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Specialty   string  `mapstructure:"specialty" yaml:"specialty"`
	Locale      string  `mapstructure:"locale" yaml:"locale"`
	RadiusKm    int     `mapstructure:"radius_km" yaml:"radius_km"`
	Format      string  `mapstructure:"format" yaml:"format"` // "xlsx", "csv", "json"
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			"openrouter": {
				Type:       "openrouter",
				Model:      "google/gemini-2.0-flash-001",
				APIKey:     "${OPENROUTER_API_KEY}",
				RateLimit:  60,
				TimeoutSec: 120,
				MaxRetries: 3,
				Enabled:    true,
			},
			"openai": {
				Type:       "openai",
				Model:      "gpt-4o-mini",
				APIKey:     "${OPENAI_API_KEY}",
				RateLimit:  60,
				TimeoutSec: 120,
				MaxRetries: 3,
				Enabled:    false,
			},
		},
		Defaults: DefaultsCfg{
			Provider:    "openrouter",
			MaxWorkers:  4,
			Temperature: 0.2,
			MaxTokens:   4000,
			Specialty:   "electricista",
			RadiusKm:    10,
			Format:      "xlsx",
		},
	}
}

// GetProvider returns a provider config by name.
func (c *Config) GetProvider(name string) (ProviderCfg, bool) {
	cfg, ok := c.Providers[name]
	return cfg, ok
}

// EnabledProviders returns all enabled providers.
func (c *Config) EnabledProviders() map[string]ProviderCfg {
	result := make(map[string]ProviderCfg)
	for name, cfg := range c.Providers {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// ToProviderConfig converts a named provider entry into the client
// constructor config, resolving ${ENV_VAR} references in the API key. The
// key travels inside the returned struct; nothing downstream reads the
// environment.
func (c *Config) ToProviderConfig(name string) (providers.Config, bool) {
	cfg, ok := c.Providers[name]
	if !ok {
		return providers.Config{}, false
	}
	return providers.Config{
		Name:       cfg.Type,
		APIKey:     ResolveEnvVars(cfg.APIKey),
		Model:      cfg.Model,
		Timeout:    time.Duration(cfg.TimeoutSec) * time.Second,
		RPM:        cfg.RateLimit,
		MaxRetries: cfg.MaxRetries,
	}, true
}
