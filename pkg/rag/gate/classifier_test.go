package gate

import (
	"context"
	"errors"
	"testing"

	"grip-chatbot-be/internal/pkg/logger"
	"grip-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type scriptedLLM struct {
	response string
	err      error
	prompt   string
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

func TestClassifyParsesVerdict(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{"plain true", "true", true},
		{"capitalized", "True", true},
		{"padded", "  TRUE \n", true},
		{"plain false", "false", false},
		{"explanation instead of token", "Yes, this is about RavenDB.", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &scriptedLLM{response: tt.response}
			classifier := NewClassifier(provider, logger.NewNopLogger(), true)

			got := classifier.Classify(context.Background(), "How do I index data?")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyEmbedsMessageInPrompt(t *testing.T) {
	provider := &scriptedLLM{response: "true"}
	classifier := NewClassifier(provider, logger.NewNopLogger(), true)

	classifier.Classify(context.Background(), "what is a map index?")
	assert.Contains(t, provider.prompt, `"what is a map index?"`)
}

func TestClassifyFailureUsesConfiguredFallback(t *testing.T) {
	t.Run("fail open", func(t *testing.T) {
		provider := &scriptedLLM{err: errors.New("connection refused")}
		classifier := NewClassifier(provider, logger.NewNopLogger(), true)
		assert.True(t, classifier.Classify(context.Background(), "anything"))
	})

	t.Run("fail closed", func(t *testing.T) {
		provider := &scriptedLLM{err: errors.New("connection refused")}
		classifier := NewClassifier(provider, logger.NewNopLogger(), false)
		assert.False(t, classifier.Classify(context.Background(), "anything"))
	})
}
