package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/wingtrade/wingtradebot/internal/market"
	"github.com/wingtrade/wingtradebot/internal/quotes"
)

// Config is the top-level wingtradebot configuration.
type Config struct {
	QuoteService   QuoteServiceConfig `yaml:"quote_service"`
	SpreadLimits   market.LimitTable  `yaml:"spread_limits"`
	CircuitBreaker BreakerConfig      `yaml:"circuit_breaker"`
	RateLimiter    LimiterConfig      `yaml:"rate_limiter"`
}

// QuoteServiceConfig configures the on-demand quote engine. Durations
// are in milliseconds to match the broker-side documentation.
type QuoteServiceConfig struct {
	URL                 string `yaml:"url"`
	ConnectionTimeoutMs int    `yaml:"connection_timeout_ms"`
	QuoteTimeoutMs      int    `yaml:"quote_timeout_ms"`
	DisconnectDelayMs   int    `yaml:"disconnect_delay_ms"`
	MaxAttempts         int    `yaml:"max_attempts"`
}

// EngineConfig converts to the quote engine's native config.
func (q QuoteServiceConfig) EngineConfig() quotes.Config {
	cfg := quotes.DefaultConfig()
	if q.URL != "" {
		cfg.URL = q.URL
	}
	if q.ConnectionTimeoutMs > 0 {
		cfg.ConnectionTimeout = time.Duration(q.ConnectionTimeoutMs) * time.Millisecond
	}
	if q.QuoteTimeoutMs > 0 {
		cfg.QuoteTimeout = time.Duration(q.QuoteTimeoutMs) * time.Millisecond
	}
	if q.DisconnectDelayMs > 0 {
		cfg.DisconnectDelay = time.Duration(q.DisconnectDelayMs) * time.Millisecond
	}
	if q.MaxAttempts > 0 {
		cfg.MaxAttempts = q.MaxAttempts
	}
	return cfg
}

// BreakerConfig configures the broker-API circuit breaker.
type BreakerConfig struct {
	FailureThreshold  uint32 `yaml:"failure_threshold"`
	ResetTimeoutMs    int    `yaml:"reset_timeout_ms"`
	HalfOpenTimeoutMs int    `yaml:"half_open_timeout_ms"`
}

// LimiterConfig configures the broker-API rate limiter.
type LimiterConfig struct {
	MaxRequests int `yaml:"max_requests"`
	WindowMs    int `yaml:"window_ms"`
}

// Default returns the production configuration.
func Default() Config {
	engineDefaults := quotes.DefaultConfig()
	return Config{
		QuoteService: QuoteServiceConfig{
			URL:                 engineDefaults.URL,
			ConnectionTimeoutMs: 10000,
			QuoteTimeoutMs:      8000,
			DisconnectDelayMs:   2000,
			MaxAttempts:         3,
		},
		SpreadLimits: market.DefaultLimitTable(),
		CircuitBreaker: BreakerConfig{
			FailureThreshold:  5,
			ResetTimeoutMs:    60000,
			HalfOpenTimeoutMs: 30000,
		},
		RateLimiter: LimiterConfig{
			MaxRequests: 10,
			WindowMs:    60000,
		},
	}
}

// Load reads a YAML config file, layering it over the defaults.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return &config, nil
}

// Save writes the configuration back out as YAML.
func Save(config *Config, configPath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
