package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"grip-chatbot-be/internal/config"
	"grip-chatbot-be/internal/constant"
	"grip-chatbot-be/internal/dto"
	"grip-chatbot-be/internal/pkg/logger"
	"grip-chatbot-be/internal/repository/memory"
	"grip-chatbot-be/pkg/llm"
	"grip-chatbot-be/pkg/rag/gate"
	"grip-chatbot-be/pkg/rag/prompt"
	"grip-chatbot-be/pkg/rag/query"
	"grip-chatbot-be/pkg/rag/retrieval"
	"grip-chatbot-be/pkg/rag/summary"
	"grip-chatbot-be/pkg/rag/title"
	"grip-chatbot-be/pkg/store"
)

// Sentinel errors mapped to HTTP statuses by the controller.
var (
	ErrSessionNotFound = errors.New("invalid session_id")

	// ErrSessionLocked: the session was already locked before this call.
	ErrSessionLocked = errors.New(constant.SessionLockedMessage)

	// ErrSessionJustLocked: this call pushed the session over the
	// lockout threshold.
	ErrSessionJustLocked = errors.New(constant.SessionNewlyLockedMessage)

	// ErrOffTopic: message rejected by the topic gate, session not yet
	// locked. The controller returns the guidance text as the reply.
	ErrOffTopic = errors.New("message ruled off-topic")

	ErrGenerationFailed = errors.New("failed to communicate with the language model")
)

// ChunkRetriever fetches relevant context chunks for a query.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, query string, k int) []store.Chunk
}

// IChatService defines the chat service interface
type IChatService interface {
	CreateSession() *dto.NewChatResponse
	GetSessions() []*dto.SessionPreviewResponse
	GetSessionHistory(sessionId string) (*dto.SessionHistoryResponse, error)
	DeleteSession(sessionId string) error
	ClearAllSessions() int
	Chat(ctx context.Context, sessionId, message string) (string, error)
}

// chatService sequences the per-request flow: topic gate, query
// enhancement, retrieval, prompt composition, generation, history
// update.
type chatService struct {
	sessionRepo *memory.SessionRepository
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	cfg         config.ChatConfig

	classifier *gate.Classifier
	enhancer   *query.Enhancer
	retriever  ChunkRetriever
	composer   *prompt.Composer
	titler     *title.Generator
}

// NewChatService wires the default domain components.
func NewChatService(
	sessionRepo *memory.SessionRepository,
	llmProvider llm.LLMProvider,
	retriever *retrieval.Retriever,
	log logger.ILogger,
	cfg config.ChatConfig,
) IChatService {
	summarizer := summary.NewSummarizer(llmProvider, log)

	return &chatService{
		sessionRepo: sessionRepo,
		llmProvider: llmProvider,
		logger:      log,
		cfg:         cfg,

		classifier: gate.NewClassifier(llmProvider, log, cfg.GateFailOpen),
		enhancer:   query.NewEnhancer(llmProvider, log),
		retriever:  retriever,
		composer:   prompt.NewComposer(summarizer, log, cfg.MaxMessagesBeforeSummary),
		titler:     title.NewGenerator(llmProvider, log),
	}
}

func (cs *chatService) CreateSession() *dto.NewChatResponse {
	session := cs.sessionRepo.Create()
	cs.logger.Info("chat", "New chat session created", map[string]interface{}{
		"session_id": session.Id,
	})
	return &dto.NewChatResponse{SessionId: session.Id}
}

func (cs *chatService) GetSessions() []*dto.SessionPreviewResponse {
	sessions := cs.sessionRepo.List()

	previews := make([]*dto.SessionPreviewResponse, 0, len(sessions))
	for _, s := range sessions {
		s.Lock()
		previews = append(previews, &dto.SessionPreviewResponse{
			Id:       s.Id,
			Preview:  s.Title,
			IsLocked: s.Locked,
		})
		s.Unlock()
	}
	return previews
}

func (cs *chatService) GetSessionHistory(sessionId string) (*dto.SessionHistoryResponse, error) {
	session, found := cs.sessionRepo.Get(sessionId)
	if !found {
		return nil, ErrSessionNotFound
	}

	session.Lock()
	defer session.Unlock()

	history := make([]store.Turn, len(session.History))
	copy(history, session.History)

	return &dto.SessionHistoryResponse{
		History:  history,
		IsLocked: session.Locked,
	}, nil
}

func (cs *chatService) DeleteSession(sessionId string) error {
	if !cs.sessionRepo.Delete(sessionId) {
		return ErrSessionNotFound
	}
	cs.logger.Info("chat", "Deleted session", map[string]interface{}{
		"session_id": sessionId,
	})
	return nil
}

func (cs *chatService) ClearAllSessions() int {
	count := cs.sessionRepo.Clear()
	cs.logger.Info("chat", "Cleared all chat sessions", map[string]interface{}{
		"count": count,
	})
	return count
}

// Chat runs the per-request state machine. All session mutation happens
// under the record's own lock so concurrent requests for the same id
// serialize.
func (cs *chatService) Chat(ctx context.Context, sessionId, message string) (string, error) {
	session, found := cs.sessionRepo.Get(sessionId)
	if !found {
		return "", ErrSessionNotFound
	}

	session.Lock()
	defer session.Unlock()

	if session.Locked {
		cs.logger.Warn("chat", "Denied request for locked session", map[string]interface{}{
			"session_id": sessionId,
		})
		return "", ErrSessionLocked
	}

	if !cs.classifier.Classify(ctx, message) {
		session.IllegalCount++
		cs.logger.Warn("chat", "Illegal message detected", map[string]interface{}{
			"session_id": sessionId,
			"count":      session.IllegalCount,
			"threshold":  cs.cfg.IllegalPromptThreshold,
		})

		if session.IllegalCount >= cs.cfg.IllegalPromptThreshold {
			session.Locked = true
			cs.logger.Error("chat", "SESSION LOCKED: too many illegal prompts", map[string]interface{}{
				"session_id": sessionId,
			})
			return "", ErrSessionJustLocked
		}
		return "", ErrOffTopic
	}

	if session.IllegalCount > 0 {
		cs.logger.Info("chat", "Legal message received, resetting illegal count", map[string]interface{}{
			"session_id": sessionId,
		})
		session.IllegalCount = 0
	}

	// The title is synthesized exactly once, from the first accepted
	// message.
	if len(session.History) == 0 && session.Title == store.DefaultSessionTitle {
		session.Title = cs.titler.Generate(ctx, message)
		cs.logger.Info("chat", "Session titled", map[string]interface{}{
			"session_id": sessionId,
			"title":      session.Title,
		})
	}

	enhancedQuery := cs.enhancer.Enhance(ctx, message)
	chunks := cs.retriever.Retrieve(ctx, enhancedQuery, cs.cfg.RetrievalTopK)
	messages := cs.composer.Compose(ctx, session, message, chunks)

	cs.logger.Debug("chat", "Sending request to LLM", map[string]interface{}{
		"message_count": len(messages),
	})

	reply, err := cs.llmProvider.Chat(ctx, messages)
	if err != nil {
		cs.logger.Error("chat", "LLM request failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		// History stays untouched: no partial turn is recorded.
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = constant.EmptyReplyFallback
	}

	session.History = append(session.History,
		store.Turn{Role: store.TurnRoleUser, Content: message},
		store.Turn{Role: store.TurnRoleAssistant, Content: reply},
	)

	return reply, nil
}
