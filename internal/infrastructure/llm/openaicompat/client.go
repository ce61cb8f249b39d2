package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
	"github.com/kirillkom/wiki-assistant/internal/infrastructure/resilience"
)

const defaultProviderPrefix = "hosted_vllm"

var recognizedProviders = map[string]struct{}{
	defaultProviderPrefix: {},
}

// TokenSource yields the current model credential. It is re-read on every
// credential refresh, which is how rotated tokens get picked up.
type TokenSource func(ctx context.Context) (string, error)

func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) {
		return token, nil
	}
}

type Config struct {
	Model   string
	APIBase string
	Token   TokenSource
}

// Client is a chat-completion client for an OpenAI-compatible model gateway.
// The underlying API client is rebuilt on credential refresh; everything else
// is immutable after construction.
type Client struct {
	model   string
	apiBase string
	token   TokenSource

	mu  sync.RWMutex
	api *openai.Client
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("llm: model is required")
	}
	if cfg.Token == nil {
		return nil, fmt.Errorf("llm: token source is required")
	}

	c := &Client{
		model:   NormalizeModelID(cfg.Model),
		apiBase: strings.TrimRight(cfg.APIBase, "/"),
		token:   cfg.Token,
	}
	if err := c.RefreshCredentials(ctx); err != nil {
		return nil, fmt.Errorf("llm: initial credential setup: %w", err)
	}
	return c, nil
}

// NormalizeModelID ensures the model carries a provider prefix exactly once:
// a recognized prefix passes through, anything else gets the default prefix
// prepended.
func NormalizeModelID(model string) string {
	if model == "" {
		return model
	}
	if provider, _, found := strings.Cut(model, "/"); found {
		if _, ok := recognizedProviders[provider]; ok {
			return model
		}
	}
	return defaultProviderPrefix + "/" + model
}

func (c *Client) Model() string {
	return c.model
}

// RefreshCredentials re-reads the token source and rebuilds the API client.
func (c *Client) RefreshCredentials(ctx context.Context) error {
	token, err := c.token(ctx)
	if err != nil {
		return fmt.Errorf("llm: acquire token: %w", err)
	}

	config := openai.DefaultConfig(token)
	if c.apiBase != "" {
		config.BaseURL = c.apiBase
	}
	api := openai.NewClientWithConfig(config)

	c.mu.Lock()
	c.api = api
	c.mu.Unlock()

	slog.Info("llm_credentials_configured", "model", c.model, "api_base", c.apiBase)
	return nil
}

// Complete issues one chat completion. A response without choices yields an
// empty string, not an error; callers treat that as a valid low-confidence
// answer.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	c.mu.RLock()
	api := c.api
	c.mu.RUnlock()

	resp, err := api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("llm: completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		slog.Warn("llm_response_no_choices", "model", c.model)
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// ClassifyAuthError reads the HTTP status off the API error when one is
// available and falls back to the generic text heuristic otherwise.
func ClassifyAuthError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusUnauthorized ||
			apiErr.HTTPStatusCode == http.StatusForbidden
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusUnauthorized ||
			reqErr.HTTPStatusCode == http.StatusForbidden
	}

	return resilience.DefaultAuthClassifier(err)
}
