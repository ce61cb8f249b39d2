package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
)

// ConversationSession is the top-level facade over retrieval and synthesis.
// One session serves one conversation: history is in-memory, append-only and
// unbounded, and questions are answered strictly one at a time.
type ConversationSession struct {
	retriever   *DocumentRetriever
	synthesizer *AnswerSynthesizer

	mu      sync.Mutex
	history []domain.ConversationTurn
	closed  bool

	closeOnce sync.Once
}

func NewConversationSession(retriever *DocumentRetriever, synthesizer *AnswerSynthesizer) *ConversationSession {
	return &ConversationSession{
		retriever:   retriever,
		synthesizer: synthesizer,
	}
}

// Answer never propagates an error to the caller: any failure in the answer
// path becomes an apologetic user-facing string, and history is only touched
// on success.
func (s *ConversationSession) Answer(ctx context.Context, question string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Info("answer_called", "question_len", len(question))

	if s.closed {
		return errorResponse(domain.ErrSessionClosed)
	}

	documents := s.retriever.Retrieve(ctx, question)
	answer, err := s.synthesizer.Synthesize(ctx, question, documents, s.history)
	if err != nil {
		slog.Error("answer_failed", "error", err)
		return errorResponse(err)
	}

	s.history = append(s.history, domain.ConversationTurn{Question: question, Answer: answer})
	slog.Info("answer_produced", "history_len", len(s.history))
	return answer
}

// History returns a snapshot; the caller cannot mutate session state through
// it.
func (s *ConversationSession) History() []domain.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]domain.ConversationTurn, len(s.history))
	copy(snapshot, s.history)
	return snapshot
}

// Close marks the session done. Safe to call any number of times; there is no
// persistent resource behind a session, so this only fences off further use.
func (s *ConversationSession) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		slog.Info("session_closed")
	})
	return nil
}

func errorResponse(err error) string {
	return fmt.Sprintf("I encountered an error while searching for information: %v", err)
}
