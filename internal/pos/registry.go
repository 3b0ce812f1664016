package pos

import "sync"

// Registry holds one Session per terminal for the life of the process.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Get returns the terminal's session, creating an empty one on first use.
func (r *Registry) Get(terminalID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[terminalID]
	if !ok {
		s = NewSession(terminalID)
		r.sessions[terminalID] = s
	}
	return s
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
