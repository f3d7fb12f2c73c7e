package prompt

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"grip-chatbot-be/internal/pkg/logger"
	"grip-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

type fakeSummarizer struct {
	digest string
	calls  int
	seen   []store.Turn
}

func (f *fakeSummarizer) Summarize(ctx context.Context, history []store.Turn) string {
	f.calls++
	f.seen = history
	return f.digest
}

func makeHistory(n int) []store.Turn {
	turns := make([]store.Turn, n)
	for i := range turns {
		role := store.TurnRoleUser
		if i%2 == 1 {
			role = store.TurnRoleAssistant
		}
		turns[i] = store.Turn{Role: role, Content: fmt.Sprintf("turn %d", i)}
	}
	return turns
}

func TestComposeShortHistoryIsInlinedVerbatim(t *testing.T) {
	summarizer := &fakeSummarizer{digest: "should not be used"}
	composer := NewComposer(summarizer, logger.NewNopLogger(), 7)

	session := &store.Session{Id: "s1", History: makeHistory(4)}
	messages := composer.Compose(context.Background(), session, "current question", nil)

	// system + 4 history + current turn
	assert.Len(t, messages, 6)
	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, "turn 0", messages[1].Content)
	assert.Equal(t, "turn 3", messages[4].Content)
	assert.Equal(t, 0, summarizer.calls)
	assert.Empty(t, session.Summary)
}

func TestComposeLongHistoryTriggersSummary(t *testing.T) {
	summarizer := &fakeSummarizer{digest: "compact digest"}
	composer := NewComposer(summarizer, logger.NewNopLogger(), 7)

	session := &store.Session{Id: "s1", History: makeHistory(8)}
	messages := composer.Compose(context.Background(), session, "current question", nil)

	assert.Equal(t, 1, summarizer.calls)
	assert.Len(t, summarizer.seen, 8, "summarizer should see the full history")
	assert.Equal(t, "compact digest", session.Summary, "summary should be cached on the session")

	// system + summary note + last 3 turns + current turn
	assert.Len(t, messages, 6)
	assert.Equal(t, "system", messages[1].Role)
	assert.Equal(t, "Previous conversation summary: compact digest", messages[1].Content)
	assert.Equal(t, "turn 5", messages[2].Content)
	assert.Equal(t, "turn 7", messages[4].Content)
}

func TestComposeReusesCachedSummary(t *testing.T) {
	summarizer := &fakeSummarizer{digest: "fresh digest"}
	composer := NewComposer(summarizer, logger.NewNopLogger(), 7)

	session := &store.Session{Id: "s1", History: makeHistory(10), Summary: "old digest"}
	messages := composer.Compose(context.Background(), session, "q", nil)

	assert.Equal(t, 0, summarizer.calls, "cached summary must not be regenerated")
	assert.Equal(t, "Previous conversation summary: old digest", messages[1].Content)

	// The note appears exactly once.
	noteCount := 0
	for _, m := range messages {
		if strings.HasPrefix(m.Content, "Previous conversation summary:") {
			noteCount++
		}
	}
	assert.Equal(t, 1, noteCount)
}

func TestComposeFailedSummaryDegradesToWindow(t *testing.T) {
	summarizer := &fakeSummarizer{digest: ""}
	composer := NewComposer(summarizer, logger.NewNopLogger(), 7)

	session := &store.Session{Id: "s1", History: makeHistory(8)}
	messages := composer.Compose(context.Background(), session, "q", nil)

	// system + last 3 turns + current turn, no summary note
	assert.Len(t, messages, 5)
	assert.Empty(t, session.Summary)
	for _, m := range messages {
		assert.NotContains(t, m.Content, "Previous conversation summary:")
	}
}

func TestComposePromptSizeIsBounded(t *testing.T) {
	summarizer := &fakeSummarizer{digest: "digest"}
	composer := NewComposer(summarizer, logger.NewNopLogger(), 7)

	for _, historyLen := range []int{0, 7, 8, 50, 500} {
		session := &store.Session{Id: "s1", History: makeHistory(historyLen)}
		messages := composer.Compose(context.Background(), session, "q", nil)

		// 1 instruction + 1 summary + 7 window + 1 current turn
		assert.LessOrEqual(t, len(messages), 10, "history length %d", historyLen)
		assert.Equal(t, "user", messages[len(messages)-1].Role)
	}
}

func TestComposeCurrentTurnCarriesChunks(t *testing.T) {
	composer := NewComposer(&fakeSummarizer{}, logger.NewNopLogger(), 7)

	chunks := []store.Chunk{
		{Title: "Indexing - Chunk 1", Content: "first"},
		{Title: "Indexing - Chunk 2", Content: "second"},
	}
	session := &store.Session{Id: "s1"}
	messages := composer.Compose(context.Background(), session, "how do I index?", chunks)

	last := messages[len(messages)-1]
	assert.Equal(t, "user", last.Role)
	assert.True(t, strings.HasPrefix(last.Content, "how do I index?\n\n"))
	assert.Contains(t, last.Content, "Relevant retrieved context chunks:\n---\n")
	assert.Contains(t, last.Content, "Chunk (Title: Indexing - Chunk 1): first")
	assert.Contains(t, last.Content, "Chunk (Title: Indexing - Chunk 2): second")
}

func TestRenderChunks(t *testing.T) {
	t.Run("no chunks", func(t *testing.T) {
		assert.Equal(t,
			"No specific relevant context was found in the knowledge base.",
			RenderChunks(nil),
		)
	})

	t.Run("chunks joined by blank lines", func(t *testing.T) {
		rendered := RenderChunks([]store.Chunk{
			{Title: "A", Content: "alpha"},
			{Title: "B", Content: "beta"},
		})
		assert.Equal(t,
			"Relevant retrieved context chunks:\n---\nChunk (Title: A): alpha\n\nChunk (Title: B): beta\n---",
			rendered,
		)
	})
}
