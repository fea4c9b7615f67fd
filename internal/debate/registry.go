package debate

import (
	"sync"

	"github.com/1996Rosy/server-app/internal/domain"
)

// Registry is the process-wide table of active debate sessions. The session
// id sequence is seeded from the last persisted id at startup so ids never
// collide with history, and is independent from every session's question
// sequence. Entries are never removed within the process lifetime.
type Registry struct {
	seq *Sequence

	mu      sync.RWMutex
	debates map[int64]*Session
}

// NewRegistry creates a registry whose first session gets id lastID+1.
func NewRegistry(lastID int64) *Registry {
	return &Registry{
		seq:     NewSequence(lastID),
		debates: make(map[int64]*Session),
	}
}

// NextID allocates a fresh session id.
func (r *Registry) NextID() int64 {
	return r.seq.Next()
}

// Register adds a session under its id. The registry is the exclusive owner
// of the mapping; registering the same id twice keeps the first entry.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.debates[s.ID()]; !exists {
		r.debates[s.ID()] = s
	}
}

// Create allocates an id, builds the session and registers it in one step.
func (r *Registry) Create(title, description, administrator string, events Broadcaster) *Session {
	s := NewSession(r.NextID(), title, description, administrator, events)
	r.Register(s)
	return s
}

// Lookup resolves a session id. A miss reports domain.ErrDebateNotFound;
// callers reject the offending request only and keep the connection alive.
func (r *Registry) Lookup(id int64) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.debates[id]
	if !ok {
		return nil, domain.ErrDebateNotFound
	}
	return s, nil
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.debates)
}
