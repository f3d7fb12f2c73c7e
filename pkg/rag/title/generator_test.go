package title

import (
	"context"
	"errors"
	"testing"

	"grip-chatbot-be/internal/pkg/logger"
	"grip-chatbot-be/pkg/llm"
	"grip-chatbot-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

type scriptedLLM struct {
	response string
	err      error
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		want     string
	}{
		{"plain title", "Indexing Basics", nil, "Indexing Basics"},
		{"double quoted", `"Indexing Basics"`, nil, "Indexing Basics"},
		{"single quoted", "'Indexing Basics'", nil, "Indexing Basics"},
		{"padded and quoted", "  \"Query Performance Tips\"\n", nil, "Query Performance Tips"},
		{"empty response falls back", "", nil, store.DefaultSessionTitle},
		{"error falls back", "", errors.New("timeout"), store.DefaultSessionTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := NewGenerator(&scriptedLLM{response: tt.response, err: tt.err}, logger.NewNopLogger())
			got := generator.Generate(context.Background(), "how do indexes work?")
			assert.Equal(t, tt.want, got)
		})
	}
}
