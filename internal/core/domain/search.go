package domain

import "strings"

// SearchStatus classifies the outcome of one search round trip. The remote
// protocol signals failures in-band as magic text, so the gateway folds every
// failure class into a status here and downstream code never string-matches
// transport errors.
type SearchStatus string

const (
	SearchOK       SearchStatus = "ok"
	SearchEmpty    SearchStatus = "empty"
	SearchTimedOut SearchStatus = "timed_out"
	SearchFailed   SearchStatus = "failed"
)

// Sentinel texts used by the wire protocol. The search server itself may also
// emit these inside an otherwise successful payload, so retrieval still has to
// recognize them as prefixes.
const (
	SentinelNoResults    = "No results found"
	SentinelTimedOut     = "Search request timed out. Please try again."
	SentinelFailedPrefix = "Search failed"
	ContentTypeText      = "text"
)

// ContentItem is one normalized unit of search-result payload.
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SearchResult is produced once per gateway call and never mutated afterwards.
// Items preserve provider ordering. Reason carries failure detail for
// SearchFailed results.
type SearchResult struct {
	Status SearchStatus  `json:"status"`
	Items  []ContentItem `json:"items"`
	Reason string        `json:"reason,omitempty"`
}

func OKSearchResult(items []ContentItem) SearchResult {
	if len(items) == 0 {
		return EmptySearchResult()
	}
	return SearchResult{Status: SearchOK, Items: items}
}

func EmptySearchResult() SearchResult {
	return SearchResult{
		Status: SearchEmpty,
		Items:  []ContentItem{{Type: ContentTypeText, Text: SentinelNoResults}},
	}
}

func TimedOutSearchResult() SearchResult {
	return SearchResult{
		Status: SearchTimedOut,
		Items:  []ContentItem{{Type: ContentTypeText, Text: SentinelTimedOut}},
	}
}

func FailedSearchResult(reason string) SearchResult {
	return SearchResult{
		Status: SearchFailed,
		Items:  []ContentItem{{Type: ContentTypeText, Text: SentinelFailedPrefix + ": " + reason}},
		Reason: reason,
	}
}

// IsSentinelText reports whether text is an in-band failure marker rather than
// document content.
func IsSentinelText(text string) bool {
	return strings.HasPrefix(text, SentinelNoResults) ||
		strings.HasPrefix(text, SentinelFailedPrefix)
}
