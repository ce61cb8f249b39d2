package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AgentPort      string
	AgentAuthToken string
	LogLevel       string

	MCPURLs []string

	LLMModel   string
	LLMAPIBase string
	LLMAPIKey  string

	SearchTimeout       time.Duration
	SearchRetryAttempts int
	SearchBreakerOn     bool

	RateLimitRPS   float64
	RateLimitBurst int

	TelegramBotToken string
	TelegramDebug    bool
	AgentBaseURL     string
}

// Load reads configuration once from the environment, with a best-effort
// .env file on top.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AgentPort:      mustEnv("AGENT_PORT", "8000"),
		AgentAuthToken: mustEnv("AGENT_AUTH_TOKEN", ""),
		LogLevel:       mustEnv("LOG_LEVEL", "info"),

		MCPURLs: splitURLs(mustEnv("MCP_URL", "http://localhost:3001")),

		LLMModel:   mustEnv("LLM_MODEL", ""),
		LLMAPIBase: mustEnv("LLM_API_BASE", ""),
		LLMAPIKey:  mustEnv("LLM_API_KEY", ""),

		SearchTimeout:       time.Duration(mustEnvInt("SEARCH_TIMEOUT_SECONDS", 30)) * time.Second,
		SearchRetryAttempts: mustEnvInt("SEARCH_RETRY_ATTEMPTS", 2),
		SearchBreakerOn:     mustEnvBool("SEARCH_BREAKER_ENABLED", true),

		RateLimitRPS:   mustEnvFloat("AGENT_RATE_LIMIT_RPS", 5),
		RateLimitBurst: mustEnvInt("AGENT_RATE_LIMIT_BURST", 10),

		TelegramBotToken: mustEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramDebug:    mustEnvBool("TELEGRAM_DEBUG", false),
		AgentBaseURL:     mustEnv("AGENT_BASE_URL", "http://localhost:8000"),
	}
}

// FirstMCPURL returns the active search server URL. Multiple URLs may be
// configured comma-separated; the first one wins.
func (c Config) FirstMCPURL() string {
	if len(c.MCPURLs) == 0 {
		return ""
	}
	return c.MCPURLs[0]
}

func splitURLs(raw string) []string {
	parts := strings.Split(raw, ",")
	urls := make([]string, 0, len(parts))
	for _, part := range parts {
		if u := strings.TrimSpace(part); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
