package httpadapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// TaskStatusUpdateEvent is a single frame of the sendSubscribe stream.
type TaskStatusUpdateEvent struct {
	ID        string     `json:"id"`
	SessionID string     `json:"sessionId"`
	Status    TaskStatus `json:"status"`
	Final     bool       `json:"final"`
}

func (rt *Router) sendTaskSubscribe(w http.ResponseWriter, r *http.Request) {
	req, text, ok := rt.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeSSEEvent(w, flusher, TaskStatusUpdateEvent{
		ID:        req.ID,
		SessionID: req.SessionID,
		Status: TaskStatus{
			State:     TaskStateWorking,
			Message:   &Message{Role: roleAgent, Parts: []MessagePart{{Kind: partKindText, Text: searchProgressText}}},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})

	start := time.Now()
	session := rt.sessions.GetOrCreate(req.SessionID)
	answer := session.Answer(r.Context(), text)

	if rt.metrics != nil {
		rt.metrics.ObserveTask(rt.service, TaskStateCompleted, time.Since(start))
	}

	writeSSEEvent(w, flusher, TaskStatusUpdateEvent{
		ID:        req.ID,
		SessionID: req.SessionID,
		Status:    agentStatus(TaskStateCompleted, answer),
		Final:     true,
	})
}

func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, event TaskStatusUpdateEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("sse_marshal_failed", "error", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
	flusher.Flush()
}
