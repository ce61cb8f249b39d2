package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.AgentPort != "8000" {
		t.Fatalf("expected default port 8000, got %q", cfg.AgentPort)
	}
	if cfg.FirstMCPURL() != "http://localhost:3001" {
		t.Fatalf("unexpected default MCP URL %q", cfg.FirstMCPURL())
	}
	if cfg.SearchTimeout != 30*time.Second {
		t.Fatalf("unexpected default timeout %v", cfg.SearchTimeout)
	}
	if cfg.RateLimitRPS != 5 || cfg.RateLimitBurst != 10 {
		t.Fatalf("unexpected rate limits %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AGENT_PORT", "9100")
	t.Setenv("MCP_URL", "http://wiki-search:3001")
	t.Setenv("SEARCH_TIMEOUT_SECONDS", "5")
	t.Setenv("SEARCH_BREAKER_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.AgentPort != "9100" {
		t.Fatalf("expected overridden port, got %q", cfg.AgentPort)
	}
	if cfg.FirstMCPURL() != "http://wiki-search:3001" {
		t.Fatalf("unexpected MCP URL %q", cfg.FirstMCPURL())
	}
	if cfg.SearchTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.SearchTimeout)
	}
	if cfg.SearchBreakerOn {
		t.Fatalf("expected breaker disabled")
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level %q", cfg.LogLevel)
	}
}

func TestLoadSplitsMCPURLList(t *testing.T) {
	t.Setenv("MCP_URL", " http://first:3001 , http://second:3001,, http://third:3001 ")

	cfg := Load()

	if len(cfg.MCPURLs) != 3 {
		t.Fatalf("expected 3 URLs, got %v", cfg.MCPURLs)
	}
	if cfg.FirstMCPURL() != "http://first:3001" {
		t.Fatalf("first URL wins, got %q", cfg.FirstMCPURL())
	}
	if cfg.MCPURLs[2] != "http://third:3001" {
		t.Fatalf("unexpected third URL %q", cfg.MCPURLs[2])
	}
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SEARCH_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("AGENT_RATE_LIMIT_RPS", "abc")

	cfg := Load()

	if cfg.SearchTimeout != 30*time.Second {
		t.Fatalf("expected default timeout on bad input, got %v", cfg.SearchTimeout)
	}
	if cfg.RateLimitRPS != 5 {
		t.Fatalf("expected default rps on bad input, got %v", cfg.RateLimitRPS)
	}
}
