package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"grip-chatbot-be/internal/pkg/logger"
	"grip-chatbot-be/pkg/llm"
	"grip-chatbot-be/pkg/rag/failsafe"
	"grip-chatbot-be/pkg/store"
)

const summaryPrompt = `Summarize the following conversation history into a compact form that preserves all technical intent and context. Output should be suitable for re-use in a future system prompt.

%s`

const summarizeTimeout = 30 * time.Second

// Summarizer collapses older conversation turns into a compact digest
// that is reinjected as a system-level note in later prompts.
type Summarizer struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewSummarizer(llmProvider llm.LLMProvider, log logger.ILogger) *Summarizer {
	return &Summarizer{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Summarize returns the digest, or an empty string on failure so the
// caller's cache stays empty and a later request retries.
func (s *Summarizer) Summarize(ctx context.Context, history []store.Turn) string {
	if len(history) == 0 {
		return ""
	}

	var conversation strings.Builder
	for _, turn := range history {
		role := "Assistant"
		if turn.Role == store.TurnRoleUser {
			role = "User"
		}
		conversation.WriteString(role)
		conversation.WriteString(": ")
		conversation.WriteString(turn.Content)
		conversation.WriteString("\n")
	}

	prompt := fmt.Sprintf(summaryPrompt, conversation.String())

	digest := failsafe.String(ctx, s.logger, "generate conversation summary", summarizeTimeout, "", func(cctx context.Context) (string, error) {
		raw, err := s.llmProvider.Generate(cctx, prompt, llm.WithMaxTokens(500))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(raw), nil
	})

	if digest != "" {
		s.logger.Debug("summary", "Generated conversation summary", map[string]interface{}{
			"length": len(digest),
		})
	}
	return digest
}
