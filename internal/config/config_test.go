package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.QuoteService.ConnectionTimeoutMs != 10000 {
		t.Errorf("Expected 10s connection timeout, got %dms", cfg.QuoteService.ConnectionTimeoutMs)
	}
	if cfg.QuoteService.QuoteTimeoutMs != 8000 {
		t.Errorf("Expected 8s quote timeout, got %dms", cfg.QuoteService.QuoteTimeoutMs)
	}
	if cfg.CircuitBreaker.FailureThreshold != 5 || cfg.CircuitBreaker.ResetTimeoutMs != 60000 || cfg.CircuitBreaker.HalfOpenTimeoutMs != 30000 {
		t.Errorf("Unexpected breaker defaults: %+v", cfg.CircuitBreaker)
	}
	if cfg.RateLimiter.MaxRequests != 10 || cfg.RateLimiter.WindowMs != 60000 {
		t.Errorf("Unexpected limiter defaults: %+v", cfg.RateLimiter)
	}
	if cfg.SpreadLimits.Forex.Normal != 10 {
		t.Errorf("Expected 10 pip forex normal cap, got %v", cfg.SpreadLimits.Forex.Normal)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "wingtradebot.yaml")

	raw := `
quote_service:
  url: wss://quotes.example.test/websocket/quotes
  quote_timeout_ms: 5000
spread_limits:
  forex:
    normal: 12
    news: 18
    overnight: 14
    low_volatility: 9
  indices:
    normal: 35
    news: 55
    overnight: 45
    low_volatility: 30
rate_limiter:
  max_requests: 5
  window_ms: 30000
`
	if err := os.WriteFile(configPath, []byte(raw), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.QuoteService.URL != "wss://quotes.example.test/websocket/quotes" {
		t.Errorf("URL override not applied: %s", cfg.QuoteService.URL)
	}
	if cfg.QuoteService.QuoteTimeoutMs != 5000 {
		t.Errorf("Expected 5000ms quote timeout, got %d", cfg.QuoteService.QuoteTimeoutMs)
	}
	// Untouched sections keep defaults.
	if cfg.QuoteService.ConnectionTimeoutMs != 10000 {
		t.Errorf("Expected default connection timeout, got %d", cfg.QuoteService.ConnectionTimeoutMs)
	}
	if cfg.CircuitBreaker.FailureThreshold != 5 {
		t.Errorf("Expected default breaker threshold, got %d", cfg.CircuitBreaker.FailureThreshold)
	}
	if cfg.SpreadLimits.Forex.Normal != 12 {
		t.Errorf("Expected 12 pip cap, got %v", cfg.SpreadLimits.Forex.Normal)
	}
	if cfg.RateLimiter.MaxRequests != 5 {
		t.Errorf("Expected 5 requests, got %d", cfg.RateLimiter.MaxRequests)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "out.yaml")

	cfg := Default()
	cfg.QuoteService.MaxAttempts = 5

	if err := Save(&cfg, configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	// The written file must parse as plain YAML too.
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}
	var generic map[string]interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		t.Fatalf("Saved config is not valid YAML: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if loaded.QuoteService.MaxAttempts != 5 {
		t.Errorf("Expected 5 attempts after round trip, got %d", loaded.QuoteService.MaxAttempts)
	}
}

func TestEngineConfigConversion(t *testing.T) {
	qs := QuoteServiceConfig{
		URL:                 "wss://quotes.example.test/ws",
		ConnectionTimeoutMs: 4000,
		QuoteTimeoutMs:      3000,
		DisconnectDelayMs:   500,
		MaxAttempts:         2,
	}

	engineCfg := qs.EngineConfig()

	if engineCfg.ConnectionTimeout != 4*time.Second {
		t.Errorf("Expected 4s connection timeout, got %v", engineCfg.ConnectionTimeout)
	}
	if engineCfg.QuoteTimeout != 3*time.Second {
		t.Errorf("Expected 3s quote timeout, got %v", engineCfg.QuoteTimeout)
	}
	if engineCfg.DisconnectDelay != 500*time.Millisecond {
		t.Errorf("Expected 500ms disconnect delay, got %v", engineCfg.DisconnectDelay)
	}
	if engineCfg.MaxAttempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", engineCfg.MaxAttempts)
	}

	// Zero values fall back to engine defaults.
	partial := QuoteServiceConfig{URL: "wss://quotes.example.test/ws"}
	cfg := partial.EngineConfig()
	if cfg.ConnectionTimeout != 10*time.Second || cfg.QuoteTimeout != 8*time.Second {
		t.Errorf("Expected default timeouts, got %v/%v", cfg.ConnectionTimeout, cfg.QuoteTimeout)
	}
}
