package failsafe

import (
	"context"
	"time"

	"grip-chatbot-be/internal/pkg/logger"
)

// The auxiliary LLM calls (legality check, query enhancement,
// summarization, titling) are best-effort: a failure or timeout must
// never abort the chat request. Every such call goes through one of
// these wrappers with an explicit fallback value.

// String runs call under a bounded timeout; on error it logs and
// returns fallback.
func String(ctx context.Context, log logger.ILogger, op string, timeout time.Duration, fallback string, call func(context.Context) (string, error)) string {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := call(cctx)
	if err != nil {
		log.Error("failsafe", "Failed to "+op, map[string]interface{}{
			"error": err.Error(),
		})
		return fallback
	}
	return result
}

// Bool runs call under a bounded timeout; on error it logs and returns
// fallback.
func Bool(ctx context.Context, log logger.ILogger, op string, timeout time.Duration, fallback bool, call func(context.Context) (bool, error)) bool {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := call(cctx)
	if err != nil {
		log.Error("failsafe", "Failed to "+op, map[string]interface{}{
			"error":    err.Error(),
			"fallback": fallback,
		})
		return fallback
	}
	return result
}
