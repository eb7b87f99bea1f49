package domain

import (
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SessionState is the call-scoped container for one transport session's
// conversation data. Its lifetime depends on the transport: stdio keeps one
// session for the process, while HTTP clients may arrive with a fresh session
// on every call. The conversation registry exists to bridge the latter.
type SessionState struct {
	mu   sync.Mutex
	data ConversationData
}

// Snapshot returns a deep copy of the current conversation data.
func (s *SessionState) Snapshot() ConversationData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Replace overwrites the session's conversation data with a deep copy of data.
func (s *SessionState) Replace(data ConversationData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data.Clone()
}

// Update applies fn to the conversation data under the session lock.
func (s *SessionState) Update(fn func(*ConversationData)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}

// Clear resets the session to an empty conversation.
func (s *SessionState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = ConversationData{}
}

// StateResolver yields the session state for a tool call. The service layer
// resolves it from the MCP session; tests inject a closure over a fixed state.
type StateResolver func(req *mcp.CallToolRequest) *SessionState
