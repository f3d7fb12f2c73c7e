package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"grip-chatbot-be/internal/config"
	"grip-chatbot-be/internal/constant"
	"grip-chatbot-be/internal/pkg/logger"
	"grip-chatbot-be/internal/repository/memory"
	"grip-chatbot-be/pkg/llm"
	"grip-chatbot-be/pkg/rag/gate"
	"grip-chatbot-be/pkg/rag/prompt"
	"grip-chatbot-be/pkg/rag/query"
	"grip-chatbot-be/pkg/rag/summary"
	"grip-chatbot-be/pkg/rag/title"
	"grip-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

// routedLLM dispatches Generate calls on the prompt's instruction text
// so one fake can serve the gate, enhancer, titler and summarizer at
// the same time.
type routedLLM struct {
	legality    string
	legalityErr error
	titleReply  string
	summary     string
	chatReply   string
	chatErr     error

	chatCalls    int
	lastMessages []llm.Message
}

func (r *routedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	r.chatCalls++
	r.lastMessages = history
	return r.chatReply, r.chatErr
}

func (r *routedLLM) Generate(ctx context.Context, p string, options ...llm.Option) (string, error) {
	switch {
	case strings.Contains(p, "validate whether a user's query"):
		return r.legality, r.legalityErr
	case strings.Contains(p, "Generate a concise"):
		return r.titleReply, nil
	case strings.Contains(p, "Summarize the following conversation"):
		return r.summary, nil
	default:
		// Query enhancement: empty answer makes the enhancer keep the
		// original message.
		return "", nil
	}
}

type stubRetriever struct {
	chunks    []store.Chunk
	lastQuery string
}

func (s *stubRetriever) Retrieve(ctx context.Context, q string, k int) []store.Chunk {
	s.lastQuery = q
	return s.chunks
}

func newTestService(provider llm.LLMProvider, retriever ChunkRetriever) (*chatService, *memory.SessionRepository) {
	log := logger.NewNopLogger()
	cfg := config.ChatConfig{
		MaxMessagesBeforeSummary: 7,
		IllegalPromptThreshold:   3,
		RetrievalTopK:            5,
		SimilarityThreshold:      0.8,
		GateFailOpen:             true,
	}
	repo := memory.NewSessionRepository()

	svc := &chatService{
		sessionRepo: repo,
		llmProvider: provider,
		logger:      log,
		cfg:         cfg,

		classifier: gate.NewClassifier(provider, log, cfg.GateFailOpen),
		enhancer:   query.NewEnhancer(provider, log),
		retriever:  retriever,
		composer:   prompt.NewComposer(summary.NewSummarizer(provider, log), log, cfg.MaxMessagesBeforeSummary),
		titler:     title.NewGenerator(provider, log),
	}
	return svc, repo
}

func TestChatUnknownSession(t *testing.T) {
	svc, _ := newTestService(&routedLLM{legality: "true", chatReply: "hi"}, &stubRetriever{})

	_, err := svc.Chat(context.Background(), "no-such-id", "hello")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestChatLockoutAfterThreeStrikes(t *testing.T) {
	provider := &routedLLM{legality: "false", titleReply: "Some Title", chatReply: "hi"}
	svc, repo := newTestService(provider, &stubRetriever{})
	session := repo.Create()

	_, err := svc.Chat(context.Background(), session.Id, "off topic 1")
	assert.ErrorIs(t, err, ErrOffTopic)

	_, err = svc.Chat(context.Background(), session.Id, "off topic 2")
	assert.ErrorIs(t, err, ErrOffTopic)

	_, err = svc.Chat(context.Background(), session.Id, "off topic 3")
	assert.ErrorIs(t, err, ErrSessionJustLocked)
	assert.True(t, session.Locked)

	// Once locked, even in-domain messages are rejected.
	provider.legality = "true"
	_, err = svc.Chat(context.Background(), session.Id, "how do I index data?")
	assert.ErrorIs(t, err, ErrSessionLocked)

	assert.Empty(t, session.History, "rejected messages must not enter the history")
	assert.Equal(t, store.DefaultSessionTitle, session.Title)
	assert.Equal(t, 0, provider.chatCalls)
}

func TestChatLegalMessageResetsStrikes(t *testing.T) {
	provider := &routedLLM{legality: "false", titleReply: "Some Title", chatReply: "answer"}
	svc, repo := newTestService(provider, &stubRetriever{})
	session := repo.Create()

	svc.Chat(context.Background(), session.Id, "off topic 1")
	svc.Chat(context.Background(), session.Id, "off topic 2")
	assert.Equal(t, 2, session.IllegalCount)

	provider.legality = "true"
	_, err := svc.Chat(context.Background(), session.Id, "on topic")
	assert.NoError(t, err)
	assert.Equal(t, 0, session.IllegalCount)

	// Two more strikes still stay below the threshold.
	provider.legality = "false"
	svc.Chat(context.Background(), session.Id, "off topic 3")
	_, err = svc.Chat(context.Background(), session.Id, "off topic 4")
	assert.ErrorIs(t, err, ErrOffTopic)
	assert.False(t, session.Locked)
}

func TestChatAppendsTurnPair(t *testing.T) {
	provider := &routedLLM{legality: "true", titleReply: "Indexing Help", chatReply: "use a static index"}
	svc, repo := newTestService(provider, &stubRetriever{})
	session := repo.Create()

	reply, err := svc.Chat(context.Background(), session.Id, "how do I index data?")
	assert.NoError(t, err)
	assert.Equal(t, "use a static index", reply)

	assert.Len(t, session.History, 2)
	assert.Equal(t, store.Turn{Role: store.TurnRoleUser, Content: "how do I index data?"}, session.History[0])
	assert.Equal(t, store.Turn{Role: store.TurnRoleAssistant, Content: "use a static index"}, session.History[1])

	svc.Chat(context.Background(), session.Id, "and map-reduce?")
	assert.Len(t, session.History, 4)
}

func TestChatTitleGeneratedOnce(t *testing.T) {
	provider := &routedLLM{legality: "true", titleReply: "Indexing Basics", chatReply: "answer"}
	svc, repo := newTestService(provider, &stubRetriever{})
	session := repo.Create()

	svc.Chat(context.Background(), session.Id, "first message")
	assert.Equal(t, "Indexing Basics", session.Title)

	provider.titleReply = "A Different Title"
	svc.Chat(context.Background(), session.Id, "second message")
	assert.Equal(t, "Indexing Basics", session.Title)
}

func TestChatGenerationFailureLeavesHistoryUntouched(t *testing.T) {
	provider := &routedLLM{legality: "true", titleReply: "T", chatErr: errors.New("upstream down")}
	svc, repo := newTestService(provider, &stubRetriever{})
	session := repo.Create()

	_, err := svc.Chat(context.Background(), session.Id, "hello")
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "upstream down")
	assert.Empty(t, session.History)

	// The next request succeeds cleanly.
	provider.chatErr = nil
	provider.chatReply = "recovered"
	reply, err := svc.Chat(context.Background(), session.Id, "hello again")
	assert.NoError(t, err)
	assert.Equal(t, "recovered", reply)
	assert.Len(t, session.History, 2)
}

func TestChatBlankReplyFallsBack(t *testing.T) {
	provider := &routedLLM{legality: "true", titleReply: "T", chatReply: "  \n "}
	svc, repo := newTestService(provider, &stubRetriever{})
	session := repo.Create()

	reply, err := svc.Chat(context.Background(), session.Id, "hello")
	assert.NoError(t, err)
	assert.Equal(t, constant.EmptyReplyFallback, reply)
	assert.Equal(t, constant.EmptyReplyFallback, session.History[1].Content)
}

func TestChatSummarizesLongHistory(t *testing.T) {
	provider := &routedLLM{legality: "true", titleReply: "T", summary: "earlier digest", chatReply: "ok"}
	svc, repo := newTestService(provider, &stubRetriever{})
	session := repo.Create()

	for i := 0; i < 8; i++ {
		role := store.TurnRoleUser
		if i%2 == 1 {
			role = store.TurnRoleAssistant
		}
		session.History = append(session.History, store.Turn{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}
	session.Title = "Already Titled"

	_, err := svc.Chat(context.Background(), session.Id, "next question")
	assert.NoError(t, err)
	assert.Equal(t, "earlier digest", session.Summary)
	assert.Len(t, session.History, 10)
}

func TestChatRetrievedChunksReachThePrompt(t *testing.T) {
	retriever := &stubRetriever{chunks: []store.Chunk{{Title: "Doc - Chunk 1", Content: "indexing details"}}}
	provider := &routedLLM{legality: "true", titleReply: "T", chatReply: "ok"}
	svc, repo := newTestService(provider, retriever)
	session := repo.Create()

	_, err := svc.Chat(context.Background(), session.Id, "how do I index data?")
	assert.NoError(t, err)
	assert.Equal(t, "how do I index data?", retriever.lastQuery, "failed enhancement keeps the original query")

	last := provider.lastMessages[len(provider.lastMessages)-1]
	assert.Contains(t, last.Content, "Chunk (Title: Doc - Chunk 1): indexing details")
}

func TestGetSessionHistoryReturnsCopy(t *testing.T) {
	provider := &routedLLM{legality: "true", titleReply: "T", chatReply: "ok"}
	svc, repo := newTestService(provider, &stubRetriever{})
	session := repo.Create()
	svc.Chat(context.Background(), session.Id, "hello")

	res, err := svc.GetSessionHistory(session.Id)
	assert.NoError(t, err)
	assert.Len(t, res.History, 2)
	assert.False(t, res.IsLocked)

	res.History[0].Content = "mutated"
	assert.Equal(t, "hello", session.History[0].Content)

	_, err = svc.GetSessionHistory("no-such-id")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionLifecycle(t *testing.T) {
	provider := &routedLLM{legality: "true", titleReply: "T", chatReply: "ok"}
	svc, _ := newTestService(provider, &stubRetriever{})

	created := svc.CreateSession()
	assert.NotEmpty(t, created.SessionId)

	previews := svc.GetSessions()
	assert.Len(t, previews, 1)
	assert.Equal(t, created.SessionId, previews[0].Id)
	assert.Equal(t, store.DefaultSessionTitle, previews[0].Preview)

	assert.NoError(t, svc.DeleteSession(created.SessionId))
	assert.ErrorIs(t, svc.DeleteSession(created.SessionId), ErrSessionNotFound)

	svc.CreateSession()
	svc.CreateSession()
	assert.Equal(t, 2, svc.ClearAllSessions())
	assert.Empty(t, svc.GetSessions())
}
