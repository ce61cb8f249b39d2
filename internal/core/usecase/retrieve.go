package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
	"github.com/kirillkom/wiki-assistant/internal/core/ports"
)

// DocumentRetriever orchestrates keyword extraction and remote search.
// Retrieve never fails: an extraction failure falls back to searching with the
// raw question, and a dead search degrades to an empty document set.
type DocumentRetriever struct {
	keywords ports.KeywordExtractor
	search   ports.SearchClient
}

func NewDocumentRetriever(keywords ports.KeywordExtractor, search ports.SearchClient) *DocumentRetriever {
	return &DocumentRetriever{keywords: keywords, search: search}
}

func (r *DocumentRetriever) Retrieve(ctx context.Context, question string) []domain.RetrievedDocument {
	slog.Info("retrieve_started", "question_len", len(question))

	query := question
	extracted, err := r.keywords.Extract(ctx, question)
	if err != nil {
		slog.Warn("keyword_extraction_failed", "error", err)
	} else if keywords := strings.TrimSpace(extracted); keywords != "" {
		slog.Info("keywords_extracted", "keywords_len", len(keywords))
		query = keywords
	}

	result := r.search.Search(ctx, query)
	documents := parseSearchResult(result)
	slog.Info("retrieve_completed", "status", string(result.Status), "documents", len(documents))
	return documents
}

// parseSearchResult keeps only real document text: failure results carry no
// documents, and in-band sentinel texts from the search server itself are
// filtered by prefix.
func parseSearchResult(result domain.SearchResult) []domain.RetrievedDocument {
	if result.Status != domain.SearchOK {
		return nil
	}

	documents := make([]domain.RetrievedDocument, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Type != domain.ContentTypeText {
			continue
		}
		if item.Text == "" || domain.IsSentinelText(item.Text) {
			continue
		}
		documents = append(documents, domain.NewSearchDocument(item.Text))
	}
	return documents
}
