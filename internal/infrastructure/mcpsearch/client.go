package mcpsearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
	"github.com/kirillkom/wiki-assistant/internal/infrastructure/resilience"
)

const searchToolName = "search"

// TransportFactory produces a fresh transport for one search call. Sessions
// are strictly per call; the gateway holds no connection state between calls.
type TransportFactory func() (mcp.Transport, error)

// Gateway talks to the wiki search server over MCP. Search never returns an
// error: timeouts, transport failures and unrecognized payloads all degrade
// to a typed failure result.
type Gateway struct {
	transport TransportFactory
	timeout   time.Duration
	executor  *resilience.Executor
	impl      *mcp.Implementation
}

type Options struct {
	Timeout  time.Duration
	Executor *resilience.Executor

	// Transport overrides the default SSE transport; used by tests to dial
	// an in-memory server.
	Transport TransportFactory
}

func NewGateway(serverURL string, options Options) *Gateway {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := options.Transport
	if transport == nil {
		endpoint := EndpointURL(serverURL)
		transport = func() (mcp.Transport, error) {
			return &mcp.SSEClientTransport{Endpoint: endpoint}, nil
		}
	}

	executor := options.Executor
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}

	return &Gateway{
		transport: transport,
		timeout:   timeout,
		executor:  executor,
		impl: &mcp.Implementation{
			Name:    "wiki-assistant",
			Version: "1.0.0",
		},
	}
}

// EndpointURL normalizes a configured server URL to its SSE endpoint: the
// trailing slash is dropped and /sse appended when missing.
func EndpointURL(serverURL string) string {
	base := strings.TrimRight(strings.TrimSpace(serverURL), "/")
	if strings.HasSuffix(base, "/sse") {
		return base
	}
	return base + "/sse"
}

func (g *Gateway) Search(ctx context.Context, query string) domain.SearchResult {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	slog.Info("search_request", "query_len", len(query))

	var result *mcp.CallToolResult
	err := g.executor.Execute(ctx, "mcp.search", func(ctx context.Context) error {
		transport, err := g.transport()
		if err != nil {
			return fmt.Errorf("create transport: %w", err)
		}

		client := mcp.NewClient(g.impl, nil)
		session, err := client.Connect(ctx, transport, nil)
		if err != nil {
			return fmt.Errorf("connect search server: %w", err)
		}
		defer session.Close()

		res, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      searchToolName,
			Arguments: map[string]any{"query": query},
		})
		if err != nil {
			return fmt.Errorf("call %s tool: %w", searchToolName, err)
		}
		result = res
		return nil
	}, classifySearchError)

	switch {
	case err != nil && isTimeout(ctx, err):
		slog.Error("search_timed_out", "timeout", g.timeout)
		return domain.TimedOutSearchResult()
	case err != nil:
		slog.Error("search_transport_failed", "error", err)
		return domain.FailedSearchResult(err.Error())
	}

	if result != nil && result.IsError {
		reason := joinText(Normalize(result.Content))
		if reason == "" {
			reason = "search tool reported an error"
		}
		slog.Warn("search_tool_error", "reason", reason)
		return domain.FailedSearchResult(reason)
	}

	items := normalizeResult(result)
	if len(items) == 0 {
		slog.Warn("search_response_unrecognized")
		return domain.EmptySearchResult()
	}

	slog.Info("search_completed", "items", len(items))
	return domain.OKSearchResult(items)
}

// normalizeResult accepts the shapes the wire is known to produce: typed
// content, a structured payload carrying a content key, or nothing usable.
func normalizeResult(result *mcp.CallToolResult) []domain.ContentItem {
	if result == nil {
		return nil
	}
	if len(result.Content) > 0 {
		return Normalize(result.Content)
	}
	if m, ok := result.StructuredContent.(map[string]any); ok {
		if content, ok := m["content"]; ok {
			return Normalize(content)
		}
	}
	return nil
}

func joinText(items []domain.ContentItem) string {
	texts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type == domain.ContentTypeText && item.Text != "" {
			texts = append(texts, item.Text)
		}
	}
	return strings.Join(texts, "\n")
}

func isTimeout(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

func classifySearchError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
}
