package httpadapter

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

var errNoTextPart = errors.New("message contains no text part")

const (
	TaskStateWorking   = "working"
	TaskStateCompleted = "completed"
	TaskStateFailed    = "failed"
)

const (
	partKindText = "text"

	roleUser  = "user"
	roleAgent = "agent"
)

const searchProgressText = "Searching corporate wiki..."

type MessagePart struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type Message struct {
	Role      string        `json:"role"`
	Parts     []MessagePart `json:"parts"`
	MessageID string        `json:"messageId,omitempty"`
}

type TaskStatus struct {
	State     string   `json:"state"`
	Message   *Message `json:"message,omitempty"`
	Timestamp string   `json:"timestamp"`
}

type Task struct {
	ID        string     `json:"id"`
	SessionID string     `json:"sessionId"`
	Status    TaskStatus `json:"status"`
}

type sendTaskRequest struct {
	ID        string  `json:"id"`
	SessionID string  `json:"sessionId"`
	Message   Message `json:"message"`
}

func (req *sendTaskRequest) userText() (string, bool) {
	for _, part := range req.Message.Parts {
		if part.Kind == partKindText && strings.TrimSpace(part.Text) != "" {
			return part.Text, true
		}
	}
	return "", false
}

func (req *sendTaskRequest) fillDefaults() {
	if strings.TrimSpace(req.ID) == "" {
		req.ID = uuid.NewString()
	}
	if strings.TrimSpace(req.SessionID) == "" {
		req.SessionID = uuid.NewString()
	}
}

func agentStatus(state, text string) TaskStatus {
	return TaskStatus{
		State: state,
		Message: &Message{
			Role:      roleAgent,
			Parts:     []MessagePart{{Kind: partKindText, Text: text}},
			MessageID: uuid.NewString(),
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (rt *Router) sendTask(w http.ResponseWriter, r *http.Request) {
	req, text, ok := rt.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	session := rt.sessions.GetOrCreate(req.SessionID)
	answer := session.Answer(r.Context(), text)

	if rt.metrics != nil {
		rt.metrics.ObserveTask(rt.service, TaskStateCompleted, time.Since(start))
	}

	writeJSON(w, http.StatusOK, Task{
		ID:        req.ID,
		SessionID: req.SessionID,
		Status:    agentStatus(TaskStateCompleted, answer),
	})
}
