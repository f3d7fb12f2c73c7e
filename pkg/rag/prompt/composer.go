package prompt

import (
	"context"
	"fmt"
	"strings"

	"grip-chatbot-be/internal/constant"
	"grip-chatbot-be/internal/pkg/logger"
	"grip-chatbot-be/pkg/llm"
	"grip-chatbot-be/pkg/store"
)

// HistorySummarizer collapses conversation turns into a digest; empty
// string means no summary is available.
type HistorySummarizer interface {
	Summarize(ctx context.Context, history []store.Turn) string
}

// Composer assembles the bounded message sequence sent to the LLM:
// system instruction, optional running summary, a history window, and
// the current user turn with the retrieved context rendered inline.
//
// The composed sequence never exceeds
// 1 (instruction) + 1 (summary) + maxMessagesBeforeSummary + 1 (current turn)
// entries regardless of history length.
type Composer struct {
	summarizer               HistorySummarizer
	logger                   logger.ILogger
	maxMessagesBeforeSummary int
}

func NewComposer(summarizer HistorySummarizer, log logger.ILogger, maxMessagesBeforeSummary int) *Composer {
	return &Composer{
		summarizer:               summarizer,
		logger:                   log,
		maxMessagesBeforeSummary: maxMessagesBeforeSummary,
	}
}

// Compose builds the prompt for the current turn. When the history has
// outgrown the window and no summary is cached yet, it invokes the
// summarizer and stores the result on the session; the caller must hold
// the session lock.
func (c *Composer) Compose(ctx context.Context, session *store.Session, userMessage string, chunks []store.Chunk) []llm.Message {
	messages := []llm.Message{
		{Role: "system", Content: constant.SystemInstruction},
	}

	if session.Summary != "" {
		messages = append(messages, summaryNote(session.Summary))
	}

	history := session.History
	if len(history) <= c.maxMessagesBeforeSummary {
		messages = append(messages, turnsToMessages(history)...)
	} else {
		if session.Summary == "" {
			c.logger.Info("prompt", "Conversation history is long, generating a summary", map[string]interface{}{
				"history_len": len(history),
			})
			session.Summary = c.summarizer.Summarize(ctx, history)
			if session.Summary != "" {
				messages = append(messages, summaryNote(session.Summary))
			}
		}

		// Older turns are carried by the summary only; keep a short
		// verbatim window of the most recent ones.
		recent := history[len(history)-c.maxMessagesBeforeSummary/2:]
		messages = append(messages, turnsToMessages(recent)...)
	}

	messages = append(messages, llm.Message{
		Role:    "user",
		Content: userMessage + "\n\n" + RenderChunks(chunks),
	})

	return messages
}

func summaryNote(summary string) llm.Message {
	return llm.Message{
		Role:    "system",
		Content: "Previous conversation summary: " + summary,
	}
}

func turnsToMessages(turns []store.Turn) []llm.Message {
	messages := make([]llm.Message, len(turns))
	for i, turn := range turns {
		messages[i] = llm.Message{
			Role:    turn.Role,
			Content: turn.Content,
		}
	}
	return messages
}

// RenderChunks formats the retrieved chunks for inclusion in the
// current user turn, or returns the no-context marker.
func RenderChunks(chunks []store.Chunk) string {
	if len(chunks) == 0 {
		return "No specific relevant context was found in the knowledge base."
	}

	rendered := make([]string, len(chunks))
	for i, chunk := range chunks {
		rendered[i] = fmt.Sprintf("Chunk (Title: %s): %s", chunk.Title, chunk.Content)
	}

	return "Relevant retrieved context chunks:\n---\n" + strings.Join(rendered, "\n\n") + "\n---"
}
