package usecase

import (
	"context"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
	"github.com/kirillkom/wiki-assistant/internal/core/ports"
)

const keywordTemperature = 0.2

// KeywordExtractor compresses a free-form question into a short
// comma-separated keyword string to sharpen search precision. The raw model
// output is returned untrimmed; trimming is the caller's business.
type KeywordExtractor struct {
	llm ports.CompletionClient
}

func NewKeywordExtractor(llm ports.CompletionClient) *KeywordExtractor {
	return &KeywordExtractor{llm: llm}
}

func (e *KeywordExtractor) Extract(ctx context.Context, question string) (string, error) {
	return e.llm.Complete(ctx, domain.CompletionRequest{
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: keywordSystemPrompt},
			{Role: domain.RoleUser, Content: keywordPrompt(question)},
		},
		Temperature: keywordTemperature,
	})
}
