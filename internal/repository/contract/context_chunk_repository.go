package contract

import (
	"context"

	"grip-chatbot-be/internal/entity"
)

// ScoredContextChunk pairs a chunk with its cosine similarity to a query.
type ScoredContextChunk struct {
	Chunk      *entity.ContextChunk
	Similarity float64
}

type ContextChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.ContextChunk) error
	Count(ctx context.Context) (int64, error)
	DeleteBySourceFile(ctx context.Context, sourceFile string) (int64, error)

	// SearchSimilarWithScore returns the top chunks whose cosine
	// similarity to the query embedding is at least threshold, most
	// similar first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredContextChunk, error)
}
