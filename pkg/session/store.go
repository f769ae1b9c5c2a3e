// Package session holds per-connection roleplay conversation state.
//
// A session exists only while a roleplay is active for a connection:
// it is created on the first roleplay turn (or on a scenario switch) and
// deleted when the client leaves roleplay mode or disconnects. Free-chat
// turns never persist a session.
package session

// Turn roles, matching the chat roles the generation provider expects.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is a single conversation exchange entry.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session is the roleplay state for one connection.
type Session struct {
	Scenario string `json:"scenario"`
	History  []Turn `json:"history"`
}

// Append adds a turn to the session history. History grows without bound;
// truncation policy is deliberately unspecified (see DESIGN.md).
func (s *Session) Append(role, text string) {
	s.History = append(s.History, Turn{Role: role, Text: text})
}

// Store is the capability contract for session state keyed by connection ID.
// The pipeline depends on this interface so the backing store can be swapped
// (in-memory for a single process, Redis for a multi-process deployment)
// without touching pipeline logic.
type Store interface {
	// Get returns the session for a connection, if one exists.
	Get(connectionID string) (*Session, bool)

	// Put stores the session for a connection, replacing any existing one.
	Put(connectionID string, s *Session)

	// Delete removes the session for a connection. Deleting a missing
	// session is a no-op.
	Delete(connectionID string)
}
