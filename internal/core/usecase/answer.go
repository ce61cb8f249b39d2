package usecase

import (
	"context"
	"log/slog"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
	"github.com/kirillkom/wiki-assistant/internal/core/ports"
	"github.com/kirillkom/wiki-assistant/internal/infrastructure/resilience"
)

const answerTemperature = 0.3

// AnswerSynthesizer turns retrieved documents and a question into a grounded
// answer. The completion call runs under the credential-refresh policy so an
// expired token costs one refresh and one retry, nothing more.
type AnswerSynthesizer struct {
	llm   ports.CompletionClient
	retry *resilience.AuthRetryPolicy
}

func NewAnswerSynthesizer(llm ports.CompletionClient, retry *resilience.AuthRetryPolicy) *AnswerSynthesizer {
	if retry == nil {
		retry = resilience.NewAuthRetryPolicy(nil, nil)
	}
	return &AnswerSynthesizer{llm: llm, retry: retry}
}

func (s *AnswerSynthesizer) Synthesize(
	ctx context.Context,
	question string,
	documents []domain.RetrievedDocument,
	history []domain.ConversationTurn,
) (string, error) {
	slog.Info("synthesize_started", "documents", len(documents), "history_len", len(history))

	req := domain.CompletionRequest{
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: answerSystemPrompt},
			{Role: domain.RoleUser, Content: answerPrompt(BuildDocumentsBlock(documents), question)},
		},
		Temperature: answerTemperature,
	}

	var answer string
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		text, err := s.llm.Complete(ctx, req)
		if err != nil {
			return err
		}
		answer = text
		return nil
	})
	if err != nil {
		return "", err
	}

	slog.Info("synthesize_completed", "answer_len", len(answer))
	return answer, nil
}
