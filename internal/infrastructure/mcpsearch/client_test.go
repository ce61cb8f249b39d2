package mcpsearch

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
	"github.com/kirillkom/wiki-assistant/internal/infrastructure/resilience"
)

type searchToolHandler func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error)

// newTestGateway backs the gateway with an in-memory MCP server. The gateway
// opens a fresh session per call, so the factory spins up a new transport pair
// and server run loop every time it is invoked.
func newTestGateway(t *testing.T, timeout time.Duration, handler searchToolHandler) *Gateway {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	factory := func() (mcp.Transport, error) {
		server := mcp.NewServer(&mcp.Implementation{
			Name:    "wiki-search-test",
			Version: "0.0.1",
		}, nil)
		server.AddTool(&mcp.Tool{
			Name:        searchToolName,
			Description: "search the wiki",
			InputSchema: &jsonschema.Schema{Type: "object"},
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handler(ctx, req)
		})

		serverTransport, clientTransport := mcp.NewInMemoryTransports()
		go func() { _ = server.Run(ctx, serverTransport) }()
		return clientTransport, nil
	}

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    1,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     1 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	})

	return NewGateway("", Options{
		Timeout:   timeout,
		Executor:  executor,
		Transport: factory,
	})
}

func queryFromRequest(t *testing.T, req *mcp.CallToolRequest) string {
	t.Helper()

	var args struct {
		Query string `json:"query"`
	}
	raw, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		t.Fatalf("marshal arguments: %v", err)
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		t.Fatalf("unmarshal arguments: %v", err)
	}
	return args.Query
}

func TestGatewaySearchSuccess(t *testing.T) {
	var gotQuery string
	gateway := newTestGateway(t, 5*time.Second, func(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		gotQuery = queryFromRequest(t, req)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Remote work policy page."},
				&mcp.TextContent{Text: "Vacation policy page."},
			},
		}, nil
	})

	result := gateway.Search(context.Background(), "remote work")

	if gotQuery != "remote work" {
		t.Fatalf("expected query to reach the tool, got %q", gotQuery)
	}
	if result.Status != domain.SearchOK {
		t.Fatalf("expected ok status, got %s (%s)", result.Status, result.Reason)
	}
	if len(result.Items) != 2 || result.Items[0].Text != "Remote work policy page." {
		t.Fatalf("unexpected items %+v", result.Items)
	}
}

func TestGatewaySearchToolError(t *testing.T) {
	gateway := newTestGateway(t, 5*time.Second, func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "index unavailable"}},
			IsError: true,
		}, nil
	})

	result := gateway.Search(context.Background(), "q")

	if result.Status != domain.SearchFailed {
		t.Fatalf("expected failed status, got %s", result.Status)
	}
	if !strings.Contains(result.Reason, "index unavailable") {
		t.Fatalf("expected tool error text in reason, got %q", result.Reason)
	}
	if len(result.Items) != 1 || !strings.HasPrefix(result.Items[0].Text, domain.SentinelFailedPrefix) {
		t.Fatalf("expected failure sentinel item, got %+v", result.Items)
	}
}

func TestGatewaySearchEmptyContent(t *testing.T) {
	gateway := newTestGateway(t, 5*time.Second, func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{}, nil
	})

	result := gateway.Search(context.Background(), "q")

	if result.Status != domain.SearchEmpty {
		t.Fatalf("expected empty status, got %s", result.Status)
	}
	if len(result.Items) != 1 || result.Items[0].Text != domain.SentinelNoResults {
		t.Fatalf("expected no-results sentinel, got %+v", result.Items)
	}
}

func TestGatewaySearchTimeout(t *testing.T) {
	gateway := newTestGateway(t, 50*time.Millisecond, func(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	result := gateway.Search(context.Background(), "q")

	if result.Status != domain.SearchTimedOut {
		t.Fatalf("expected timed_out status, got %s (%s)", result.Status, result.Reason)
	}
	if len(result.Items) != 1 || result.Items[0].Text != domain.SentinelTimedOut {
		t.Fatalf("expected timeout sentinel, got %+v", result.Items)
	}
}

func TestGatewaySearchTransportFailure(t *testing.T) {
	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    1,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     1 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	})
	gateway := NewGateway("", Options{
		Timeout:  time.Second,
		Executor: executor,
		Transport: func() (mcp.Transport, error) {
			return nil, context.DeadlineExceeded
		},
	})

	// A transport error that is itself a deadline still reads as a timeout.
	result := gateway.Search(context.Background(), "q")
	if result.Status != domain.SearchTimedOut {
		t.Fatalf("expected timed_out status, got %s", result.Status)
	}
}

func TestEndpointURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"http://localhost:3001", "http://localhost:3001/sse"},
		{"http://localhost:3001/", "http://localhost:3001/sse"},
		{"http://localhost:3001/sse", "http://localhost:3001/sse"},
		{" http://wiki-search:3001/ ", "http://wiki-search:3001/sse"},
	}
	for _, tc := range cases {
		if got := EndpointURL(tc.in); got != tc.want {
			t.Fatalf("EndpointURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
