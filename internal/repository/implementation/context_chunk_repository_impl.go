package implementation

import (
	"context"

	"grip-chatbot-be/internal/entity"
	"grip-chatbot-be/internal/mapper"
	"grip-chatbot-be/internal/model"
	"grip-chatbot-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ContextChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContextChunkMapper
}

func NewContextChunkRepository(db *gorm.DB) contract.ContextChunkRepository {
	return &ContextChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewContextChunkMapper(),
	}
}

func (r *ContextChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.ContextChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	models := make([]*model.ContextChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	// Update generated IDs back to entities
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ContextChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ContextChunk{}).Count(&count).Error
	return count, err
}

func (r *ContextChunkRepositoryImpl) DeleteBySourceFile(ctx context.Context, sourceFile string) (int64, error) {
	res := r.db.WithContext(ctx).Where("source_file = ?", sourceFile).Delete(&model.ContextChunk{})
	return res.RowsAffected, res.Error
}

// SearchSimilarWithScore returns chunks with similarity scores, filtered by threshold.
// Cosine distance in pgvector is 1 - cosine_similarity, so the score is
// computed as 1 - (embedding <=> query_vector).
func (r *ContextChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredContextChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.ContextChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("context_chunks").
		Select("context_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("1 - (embedding <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredContextChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredContextChunk{
			Chunk:      r.mapper.ToEntity(&res.ContextChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
