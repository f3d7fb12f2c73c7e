package memory

import (
	"grip-chatbot-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRepository is the in-memory registry of chat sessions.
// Sessions are not persisted and live for the duration of the process.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Sessions never expire; they end only on explicit delete or clear.
	c := cache.New(cache.NoExpiration, 0)
	return &SessionRepository{
		cache: c,
	}
}

// Create registers a fresh session with the placeholder title and
// returns it.
func (r *SessionRepository) Create() *store.Session {
	session := &store.Session{
		Id:      uuid.New().String(),
		Title:   store.DefaultSessionTitle,
		History: []store.Turn{},
	}
	r.cache.Set(session.Id, session, cache.NoExpiration)
	return session
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// Delete removes a session. Returns false if the id is unknown.
func (r *SessionRepository) Delete(sessionID string) bool {
	if _, found := r.cache.Get(sessionID); !found {
		return false
	}
	r.cache.Delete(sessionID)
	return true
}

// Clear removes every session and returns how many were dropped.
func (r *SessionRepository) Clear() int {
	count := r.cache.ItemCount()
	r.cache.Flush()
	return count
}

// List returns all registered sessions in no particular order.
func (r *SessionRepository) List() []*store.Session {
	items := r.cache.Items()
	sessions := make([]*store.Session, 0, len(items))
	for _, item := range items {
		sessions = append(sessions, item.Object.(*store.Session))
	}
	return sessions
}
