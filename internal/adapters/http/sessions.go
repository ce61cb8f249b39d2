package httpadapter

import (
	"sync"

	"github.com/kirillkom/wiki-assistant/internal/core/ports"
)

// SessionFactory builds one conversation session per distinct session ID.
type SessionFactory func() ports.Assistant

// SessionRegistry keeps live sessions keyed by session ID. Sessions live for
// the process lifetime; there is no eviction, matching the unbounded
// in-memory history contract of the session itself.
type SessionRegistry struct {
	factory SessionFactory

	mu       sync.Mutex
	sessions map[string]ports.Assistant

	onOpen  func()
	onClose func()
}

func NewSessionRegistry(factory SessionFactory) *SessionRegistry {
	return &SessionRegistry{
		factory:  factory,
		sessions: make(map[string]ports.Assistant),
	}
}

// SetHooks registers open/close callbacks, used for session gauges.
func (r *SessionRegistry) SetHooks(onOpen, onClose func()) {
	r.onOpen = onOpen
	r.onClose = onClose
}

func (r *SessionRegistry) GetOrCreate(sessionID string) ports.Assistant {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[sessionID]; ok {
		return session
	}

	session := r.factory()
	r.sessions[sessionID] = session
	if r.onOpen != nil {
		r.onOpen()
	}
	return session
}

// CloseAll closes every live session exactly once. Called on server
// shutdown.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, session := range r.sessions {
		_ = session.Close()
		delete(r.sessions, id)
		if r.onClose != nil {
			r.onClose()
		}
	}
}
