package title

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"grip-chatbot-be/internal/pkg/logger"
	"grip-chatbot-be/pkg/llm"
	"grip-chatbot-be/pkg/rag/failsafe"
	"grip-chatbot-be/pkg/store"
)

const titlePrompt = "Generate a concise 3–5 word title for a chat session that begins with this message:\n%q"

const titleTimeout = 15 * time.Second

var surroundingQuotes = regexp.MustCompile(`^["']|["']$`)

// Generator produces a short display title for a session from its first
// accepted message.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      log,
	}
}

func (g *Generator) Generate(ctx context.Context, firstMessage string) string {
	prompt := fmt.Sprintf(titlePrompt, firstMessage)

	generated := failsafe.String(ctx, g.logger, "generate session title", titleTimeout, store.DefaultSessionTitle, func(cctx context.Context) (string, error) {
		raw, err := g.llmProvider.Generate(cctx, prompt, llm.WithMaxTokens(20))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(surroundingQuotes.ReplaceAllString(strings.TrimSpace(raw), "")), nil
	})

	if generated == "" {
		return store.DefaultSessionTitle
	}

	g.logger.Debug("title", "Generated session title", map[string]interface{}{
		"title": generated,
	})
	return generated
}
