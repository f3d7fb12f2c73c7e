package store

import "sync"

// Chunk represents a retrieved documentation chunk for the RAG system
type Chunk struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Turn is a single message in a session's conversation history
type Turn struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// Session represents the active chat session state in memory.
//
// The embedded mutex serializes all mutation for one session so that
// concurrent /chat requests cannot lose updates to the illegal counter,
// the lock flag, or the history. Requests for distinct sessions run
// concurrently.
type Session struct {
	mu sync.Mutex

	Id           string `json:"id"`
	Title        string `json:"title"`
	History      []Turn `json:"history"`
	IllegalCount int    `json:"illegal_count"`
	Locked       bool   `json:"is_locked"` // monotonic: never reset within the session lifetime
	Summary      string `json:"conversation_summary"`
}

const (
	TurnRoleUser      = "user"
	TurnRoleAssistant = "assistant"

	// Placeholder title until the first accepted message generates one.
	DefaultSessionTitle = "New Chat"
)

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }
