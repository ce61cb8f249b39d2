package domain

// ConversationTurn is one answered question. Turns are appended to session
// history only after a successful answer.
type ConversationTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ChatMessage is one role/content pair of a model invocation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionRequest is the ephemeral parameter set of a single model call.
// It is rebuilt per call and never persisted; model identity and credentials
// live with the completion client.
type CompletionRequest struct {
	Messages    []ChatMessage
	Temperature float32
}
