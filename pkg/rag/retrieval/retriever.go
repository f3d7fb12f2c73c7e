package retrieval

import (
	"context"
	"strings"

	"grip-chatbot-be/internal/pkg/logger"
	"grip-chatbot-be/internal/repository/contract"
	"grip-chatbot-be/pkg/embedding"
	"grip-chatbot-be/pkg/store"
)

// Retriever adapts the pgvector chunk store to the chat flow: embed the
// query, run a similarity search, and map results to chunks in rank
// order. Retrieval failure must never abort a chat request, so every
// error degrades to an empty result.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	chunkRepo         contract.ContextChunkRepository
	logger            logger.ILogger
	threshold         float64
}

func NewRetriever(
	embeddingProvider embedding.EmbeddingProvider,
	chunkRepo contract.ContextChunkRepository,
	log logger.ILogger,
	threshold float64,
) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		chunkRepo:         chunkRepo,
		logger:            log,
		threshold:         threshold,
	}
}

// Retrieve returns at most k chunks ordered by descending relevance,
// possibly none.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) []store.Chunk {
	if r.chunkRepo == nil {
		r.logger.Warn("retrieval", "Chunk store unavailable, continuing without context", nil)
		return nil
	}

	embeddingRes, err := r.embeddingProvider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		r.logger.Error("retrieval", "Embedding generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	scored, err := r.chunkRepo.SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, k, r.threshold)
	if err != nil {
		r.logger.Error("retrieval", "Chunk store query failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	if len(scored) == 0 {
		r.logger.Info("retrieval", "No relevant context chunks retrieved", nil)
		return nil
	}

	chunks := make([]store.Chunk, 0, len(scored))
	titles := make([]string, 0, len(scored))
	for _, s := range scored {
		if s.Chunk.Content == "" {
			continue
		}
		chunks = append(chunks, store.Chunk{
			Title:   s.Chunk.Title,
			Content: s.Chunk.Content,
		})
		titles = append(titles, "'"+s.Chunk.Title+"'")
	}

	r.logger.Info("retrieval", "Retrieved context chunks", map[string]interface{}{
		"count":  len(chunks),
		"titles": strings.Join(titles, ", "),
	})

	return chunks
}
