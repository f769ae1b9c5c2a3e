package session

import "sync"

// MemoryStore is the default in-process Store. Sessions are mutated only in
// response to their own connection's events, but connections are served by
// independent goroutines, so the map itself is guarded.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for a connection, if one exists.
func (m *MemoryStore) Get(connectionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[connectionID]
	return s, ok
}

// Put stores the session for a connection.
func (m *MemoryStore) Put(connectionID string, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[connectionID] = s
}

// Delete removes the session for a connection.
func (m *MemoryStore) Delete(connectionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, connectionID)
}

// Count returns the number of active sessions.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}
