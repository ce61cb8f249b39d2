package ports

import (
	"context"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
)

// SearchClient performs one remote search. Implementations never return an
// error: every failure class is folded into the result's status so callers
// handle a single shape.
type SearchClient interface {
	Search(ctx context.Context, query string) domain.SearchResult
}

// CompletionClient issues one chat completion. An empty string with a nil
// error is a valid outcome (the model returned no choices).
type CompletionClient interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

// CredentialRefresher re-acquires model credentials and rebuilds any call
// state that depends on them.
type CredentialRefresher interface {
	RefreshCredentials(ctx context.Context) error
}

// KeywordExtractor compresses a question into a comma-separated keyword
// string. Errors propagate; recovery is the retriever's job.
type KeywordExtractor interface {
	Extract(ctx context.Context, question string) (string, error)
}
