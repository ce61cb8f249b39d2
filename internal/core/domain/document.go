package domain

const (
	DocumentSourceSearch = "search"
	DocumentQueryTag     = "search_result"
)

// RetrievedDocument is one candidate document handed to answer synthesis.
// Immutable once created; its only identity is its position in the slice
// returned by one retrieval call.
type RetrievedDocument struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

func NewSearchDocument(content string) RetrievedDocument {
	return RetrievedDocument{
		Content: content,
		Metadata: map[string]string{
			"source": DocumentSourceSearch,
			"query":  DocumentQueryTag,
		},
	}
}
