package ports

import (
	"context"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
)

// Assistant is the session facade exposed to transports. Answer never returns
// an error: failures below the facade are converted to a user-facing string.
// Close is idempotent and must be invoked exactly once by the owning
// collaborator regardless of success or failure path.
type Assistant interface {
	Answer(ctx context.Context, question string) string
	History() []domain.ConversationTurn
	Close() error
}
