// Package bootstrap wires configuration into runnable application parts.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	httpadapter "github.com/kirillkom/wiki-assistant/internal/adapters/http"
	"github.com/kirillkom/wiki-assistant/internal/config"
	"github.com/kirillkom/wiki-assistant/internal/core/ports"
	"github.com/kirillkom/wiki-assistant/internal/core/usecase"
	"github.com/kirillkom/wiki-assistant/internal/infrastructure/llm/openaicompat"
	"github.com/kirillkom/wiki-assistant/internal/infrastructure/mcpsearch"
	"github.com/kirillkom/wiki-assistant/internal/infrastructure/resilience"
	"github.com/kirillkom/wiki-assistant/internal/observability/metrics"
)

const serviceName = "wiki-agent"

// App holds everything cmd/agent needs to serve traffic.
type App struct {
	Router   *httpadapter.Router
	Sessions *httpadapter.SessionRegistry
	Metrics  *metrics.ServerMetrics
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	llmClient, err := openaicompat.New(ctx, openaicompat.Config{
		Model:   cfg.LLMModel,
		APIBase: cfg.LLMAPIBase,
		Token:   openaicompat.StaticToken(cfg.LLMAPIKey),
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap: llm client: %w", err)
	}

	executorCfg := resilience.DefaultConfig()
	executorCfg.RetryMaxAttempts = cfg.SearchRetryAttempts
	executorCfg.BreakerEnabled = cfg.SearchBreakerOn
	executor := resilience.NewExecutor(executorCfg)

	searchURL := cfg.FirstMCPURL()
	gateway := mcpsearch.NewGateway(searchURL, mcpsearch.Options{
		Timeout:  cfg.SearchTimeout,
		Executor: executor,
	})
	slog.Info("search_gateway_configured", "url", searchURL, "timeout", cfg.SearchTimeout)

	var refresher ports.CredentialRefresher = llmClient
	authRetry := resilience.NewAuthRetryPolicy(openaicompat.ClassifyAuthError, refresher.RefreshCredentials)

	serverMetrics := metrics.NewServerMetrics(serviceName)

	factory := func() ports.Assistant {
		retriever := usecase.NewDocumentRetriever(usecase.NewKeywordExtractor(llmClient), gateway)
		synthesizer := usecase.NewAnswerSynthesizer(llmClient, authRetry)
		return usecase.NewConversationSession(retriever, synthesizer)
	}

	sessions := httpadapter.NewSessionRegistry(factory)
	sessions.SetHooks(serverMetrics.SessionOpened, serverMetrics.SessionClosed)

	router := httpadapter.NewRouter(sessions, serverMetrics, httpadapter.RouterConfig{
		Service:        serviceName,
		AuthToken:      cfg.AgentAuthToken,
		BaseURL:        cfg.AgentBaseURL,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	return &App{
		Router:   router,
		Sessions: sessions,
		Metrics:  serverMetrics,
	}, nil
}
