package memory

import (
	"testing"

	"grip-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestCreateAndGet(t *testing.T) {
	repo := NewSessionRepository()

	session := repo.Create()
	assert.NotEmpty(t, session.Id)
	assert.Equal(t, store.DefaultSessionTitle, session.Title)
	assert.Empty(t, session.History)
	assert.False(t, session.Locked)

	got, found := repo.Get(session.Id)
	assert.True(t, found)
	assert.Same(t, session, got, "Get must return the live record, not a copy")

	_, found = repo.Get("nonexistent")
	assert.False(t, found)
}

func TestDelete(t *testing.T) {
	repo := NewSessionRepository()
	session := repo.Create()

	assert.True(t, repo.Delete(session.Id))
	_, found := repo.Get(session.Id)
	assert.False(t, found)

	assert.False(t, repo.Delete(session.Id), "deleting twice must report unknown id")
}

func TestClear(t *testing.T) {
	repo := NewSessionRepository()
	repo.Create()
	repo.Create()
	repo.Create()

	assert.Equal(t, 3, repo.Clear())
	assert.Empty(t, repo.List())
	assert.Equal(t, 0, repo.Clear())
}

func TestList(t *testing.T) {
	repo := NewSessionRepository()
	a := repo.Create()
	b := repo.Create()

	sessions := repo.List()
	assert.Len(t, sessions, 2)

	ids := map[string]bool{}
	for _, s := range sessions {
		ids[s.Id] = true
	}
	assert.True(t, ids[a.Id])
	assert.True(t, ids[b.Id])
}
