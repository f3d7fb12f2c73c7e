package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"grip-chatbot-be/internal/pkg/logger"
	"grip-chatbot-be/pkg/llm"
	"grip-chatbot-be/pkg/rag/failsafe"
)

const enhancementPrompt = `Enhance this user message to improve semantic similarity search over embedded documentation about RavenDB. Do not change the meaning, only improve searchability:
%q
`

const enhanceTimeout = 15 * time.Second

// Enhancer rewrites a user message to improve retrieval recall without
// changing its intent. On failure the original message is used.
type Enhancer struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewEnhancer(llmProvider llm.LLMProvider, log logger.ILogger) *Enhancer {
	return &Enhancer{
		llmProvider: llmProvider,
		logger:      log,
	}
}

func (e *Enhancer) Enhance(ctx context.Context, message string) string {
	prompt := fmt.Sprintf(enhancementPrompt, message)

	enhanced := failsafe.String(ctx, e.logger, "enhance query", enhanceTimeout, message, func(cctx context.Context) (string, error) {
		raw, err := e.llmProvider.Generate(cctx, prompt, llm.WithMaxTokens(100))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(raw), nil
	})

	if enhanced == "" {
		return message
	}

	e.logger.Debug("query", "Enhanced query for search", map[string]interface{}{
		"original": message,
		"enhanced": enhanced,
	})
	return enhanced
}
