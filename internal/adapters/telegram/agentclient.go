// Package telegram bridges Telegram chats to the agent task API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
)

// agentRequestTimeout allows for slow retrieval and generation chains.
const agentRequestTimeout = 5 * time.Minute

type taskMessagePart struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type taskMessage struct {
	Role      string            `json:"role"`
	Parts     []taskMessagePart `json:"parts"`
	MessageID string            `json:"messageId,omitempty"`
}

type taskStatus struct {
	State   string       `json:"state"`
	Message *taskMessage `json:"message,omitempty"`
}

type taskResponse struct {
	ID        string     `json:"id"`
	SessionID string     `json:"sessionId"`
	Status    taskStatus `json:"status"`
}

type sendTaskRequest struct {
	ID        string      `json:"id"`
	SessionID string      `json:"sessionId"`
	Message   taskMessage `json:"message"`
}

// AgentClient calls the agent's task endpoint over HTTP.
type AgentClient struct {
	baseURL   string
	authToken string
	client    *http.Client
}

func NewAgentClient(baseURL, authToken string) *AgentClient {
	return &AgentClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		client:    &http.Client{Timeout: agentRequestTimeout},
	}
}

// Ask sends the question as a task and returns the agent's answer text.
// The sessionID keeps per-chat conversation state on the agent side.
func (c *AgentClient) Ask(ctx context.Context, sessionID, question string) (string, error) {
	const operation = "telegram.ask"

	body, err := json.Marshal(sendTaskRequest{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Message: taskMessage{
			Role:      "user",
			Parts:     []taskMessagePart{{Kind: "text", Text: question}},
			MessageID: uuid.NewString(),
		},
	})
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/tasks/send", bytes.NewReader(body))
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", domain.WrapError(domain.ErrTemporary, operation, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", domain.WrapError(domain.ErrUnauthorized, operation, fmt.Errorf("agent returned status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return "", domain.WrapError(domain.ErrTemporary, operation, fmt.Errorf("agent returned status %d", resp.StatusCode))
	}

	var task taskResponse
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return "", domain.WrapError(domain.ErrTemporary, operation, err)
	}

	answer, ok := firstTextPart(task.Status.Message)
	if !ok {
		return "", domain.WrapError(domain.ErrTemporary, operation, fmt.Errorf("task %s has no text answer", task.ID))
	}
	return answer, nil
}

func firstTextPart(message *taskMessage) (string, bool) {
	if message == nil {
		return "", false
	}
	for _, part := range message.Parts {
		if part.Kind == "text" && part.Text != "" {
			return part.Text, true
		}
	}
	return "", false
}
