// Package config provides the configuration surface for Tributary connectors.
// It defines a single ConnectorConfig structure that all connectors use,
// ensuring consistent configuration across the framework.
//
// Example usage:
//
//	cfg := config.NewConnectorConfig("https://api.github.com")
//	cfg.RateLimitCalls = 30
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"time"
)

// ConnectorConfig is the configuration value object shared by all connectors.
// It is treated as immutable once validated; connectors hold it by pointer
// but never mutate it after construction.
type ConnectorConfig struct {
	// BaseURL is the root address of the upstream API (required)
	BaseURL string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`

	// APIKey is the optional credential. When set, the connector's auth
	// headers are injected into the session at construction.
	APIKey string `yaml:"api_key" json:"api_key" mapstructure:"api_key"`

	// RateLimitCalls is the number of calls admitted per rate limit window
	RateLimitCalls int `yaml:"rate_limit_calls" json:"rate_limit_calls" mapstructure:"rate_limit_calls"`

	// RateLimitPeriod is the length of the sliding rate limit window
	RateLimitPeriod time.Duration `yaml:"rate_limit_period" json:"rate_limit_period" mapstructure:"rate_limit_period"`

	// MaxRetries is the total attempt cap for a single request
	MaxRetries int `yaml:"max_retries" json:"max_retries" mapstructure:"max_retries"`

	// Timeout bounds each individual HTTP request. No timeout spans a whole
	// extraction; long runs are bounded via MaxPages on the paginators.
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`

	// Observability settings
	Observability ObservabilityConfig `yaml:"observability" json:"observability" mapstructure:"observability"`
}

// ObservabilityConfig contains monitoring and logging settings.
type ObservabilityConfig struct {
	// EnableMetrics activates prometheus metrics collection
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics" mapstructure:"enable_metrics"`
	// EnableTracing activates request tracing
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing" mapstructure:"enable_tracing"`
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
}

// NewConnectorConfig creates a ConnectorConfig with the documented defaults:
// 60 calls per 60 second window, 3 attempts, 30 second request timeout.
func NewConnectorConfig(baseURL string) *ConnectorConfig {
	return &ConnectorConfig{
		BaseURL:         baseURL,
		RateLimitCalls:  60,
		RateLimitPeriod: 60 * time.Second,
		MaxRetries:      3,
		Timeout:         30 * time.Second,
		Observability: ObservabilityConfig{
			EnableMetrics: true,
			EnableTracing: false,
			LogLevel:      "info",
		},
	}
}

// ApplyDefaults fills zero-valued fields with the documented defaults.
// Used after loading partial configuration from a file.
func (c *ConnectorConfig) ApplyDefaults() {
	if c.RateLimitCalls == 0 {
		c.RateLimitCalls = 60
	}
	if c.RateLimitPeriod == 0 {
		c.RateLimitPeriod = 60 * time.Second
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
}

// Validate validates the configuration for correctness. Connectors call this
// at construction to catch errors early.
func (c *ConnectorConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.RateLimitCalls < 1 {
		return fmt.Errorf("rate_limit_calls must be at least 1")
	}
	if c.RateLimitPeriod <= 0 {
		return fmt.Errorf("rate_limit_period must be positive")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// HasCredential returns true if an API key is configured
func (c *ConnectorConfig) HasCredential() bool {
	return c.APIKey != ""
}
