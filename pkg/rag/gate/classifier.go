package gate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"grip-chatbot-be/internal/constant"
	"grip-chatbot-be/internal/pkg/logger"
	"grip-chatbot-be/pkg/llm"
	"grip-chatbot-be/pkg/rag/failsafe"
)

const classifyTimeout = 15 * time.Second

// Classifier decides whether a user message is in scope for the
// assistant's domain by asking the LLM for a single boolean token.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	failOpen    bool
}

// NewClassifier creates a topic gate. failOpen controls the verdict
// when the classification call itself fails: true preserves the
// availability-over-strictness behavior of treating the message as
// legal.
func NewClassifier(llmProvider llm.LLMProvider, log logger.ILogger, failOpen bool) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      log,
		failOpen:    failOpen,
	}
}

// Classify returns true when the message is in-domain.
func (c *Classifier) Classify(ctx context.Context, message string) bool {
	prompt := fmt.Sprintf(constant.LegalityPrompt, message)

	isLegal := failsafe.Bool(ctx, c.logger, "check message legality", classifyTimeout, c.failOpen, func(cctx context.Context) (bool, error) {
		raw, err := c.llmProvider.Generate(cctx, prompt, llm.WithMaxTokens(10))
		if err != nil {
			return false, err
		}
		return strings.EqualFold(strings.TrimSpace(raw), "true"), nil
	})

	verdict := "ILLEGAL"
	if isLegal {
		verdict = "LEGAL"
	}
	c.logger.Info("gate", "Query Legality Check: '"+verdict+"'", nil)

	return isLegal
}
