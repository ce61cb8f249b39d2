package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
	"github.com/kirillkom/wiki-assistant/internal/infrastructure/resilience"
)

type completionFake struct {
	answer string
	errs   []error
	calls  int
	reqs   []domain.CompletionRequest
}

func (f *completionFake) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	f.reqs = append(f.reqs, req)
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return f.answer, nil
}

func TestSynthesizeEmbedsDocuments(t *testing.T) {
	llm := &completionFake{answer: "3 days per week"}
	synthesizer := NewAnswerSynthesizer(llm, nil)

	documents := []domain.RetrievedDocument{
		domain.NewSearchDocument("Remote work is allowed 3 days per week."),
		domain.NewSearchDocument("Office attendance is required on Mondays."),
	}
	answer, err := synthesizer.Synthesize(context.Background(), "How many remote days?", documents, nil)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if answer != "3 days per week" {
		t.Fatalf("unexpected answer %q", answer)
	}

	if len(llm.reqs) != 1 {
		t.Fatalf("expected 1 completion call, got %d", len(llm.reqs))
	}
	req := llm.reqs[0]
	if req.Temperature != answerTemperature {
		t.Fatalf("expected temperature %v, got %v", answerTemperature, req.Temperature)
	}
	prompt := req.Messages[len(req.Messages)-1].Content
	if !strings.Contains(prompt, "Document 1:\nRemote work is allowed 3 days per week.") {
		t.Fatalf("prompt missing first document:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Document 2:") {
		t.Fatalf("prompt missing second document:\n%s", prompt)
	}
	if !strings.Contains(prompt, "How many remote days?") {
		t.Fatalf("prompt missing question:\n%s", prompt)
	}
}

func TestSynthesizeUsesMarkerWithoutDocuments(t *testing.T) {
	llm := &completionFake{answer: "I do not have information about that."}
	synthesizer := NewAnswerSynthesizer(llm, nil)

	if _, err := synthesizer.Synthesize(context.Background(), "q", nil, nil); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	prompt := llm.reqs[0].Messages[len(llm.reqs[0].Messages)-1].Content
	if !strings.Contains(prompt, NoDocumentsMarker) {
		t.Fatalf("prompt missing no-documents marker:\n%s", prompt)
	}
}

func TestSynthesizeRefreshesOnAuthError(t *testing.T) {
	refreshed := 0
	llm := &completionFake{
		answer: "recovered",
		errs:   []error{errors.New("status 401 Unauthorized"), nil},
	}
	retry := resilience.NewAuthRetryPolicy(nil, func(context.Context) error {
		refreshed++
		return nil
	})
	synthesizer := NewAnswerSynthesizer(llm, retry)

	answer, err := synthesizer.Synthesize(context.Background(), "q", nil, nil)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if answer != "recovered" {
		t.Fatalf("unexpected answer %q", answer)
	}
	if refreshed != 1 {
		t.Fatalf("expected exactly one refresh, got %d", refreshed)
	}
	if llm.calls != 2 {
		t.Fatalf("expected 2 completion calls, got %d", llm.calls)
	}
}

func TestSynthesizePropagatesNonAuthError(t *testing.T) {
	llm := &completionFake{errs: []error{errors.New("disk full")}}
	refreshed := 0
	retry := resilience.NewAuthRetryPolicy(nil, func(context.Context) error {
		refreshed++
		return nil
	})
	synthesizer := NewAnswerSynthesizer(llm, retry)

	_, err := synthesizer.Synthesize(context.Background(), "q", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected original error, got %v", err)
	}
	if refreshed != 0 {
		t.Fatalf("refresh must not run for non-auth errors, got %d", refreshed)
	}
	if llm.calls != 1 {
		t.Fatalf("expected a single completion call, got %d", llm.calls)
	}
}

func TestBuildDocumentsBlock(t *testing.T) {
	if got := BuildDocumentsBlock(nil); got != NoDocumentsMarker {
		t.Fatalf("expected marker for empty set, got %q", got)
	}

	block := BuildDocumentsBlock([]domain.RetrievedDocument{
		domain.NewSearchDocument("first"),
		domain.NewSearchDocument("second"),
	})
	want := "Document 1:\nfirst\n\nDocument 2:\nsecond"
	if block != want {
		t.Fatalf("unexpected block:\n%q\nwant:\n%q", block, want)
	}
}
