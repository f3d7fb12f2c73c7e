package mapper

import (
	"grip-chatbot-be/internal/entity"
	"grip-chatbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ContextChunkMapper struct{}

func NewContextChunkMapper() *ContextChunkMapper {
	return &ContextChunkMapper{}
}

func (m *ContextChunkMapper) ToModel(e *entity.ContextChunk) *model.ContextChunk {
	return &model.ContextChunk{
		Id:          e.Id,
		Title:       e.Title,
		Content:     e.Content,
		SourceFile:  e.SourceFile,
		ChunkNumber: e.ChunkNumber,
		Metadata:    datatypes.JSONMap(e.Metadata),
		Embedding:   pgvector.NewVector(e.Embedding),
		CreatedAt:   e.CreatedAt,
	}
}

func (m *ContextChunkMapper) ToEntity(mo *model.ContextChunk) *entity.ContextChunk {
	return &entity.ContextChunk{
		Id:          mo.Id,
		Title:       mo.Title,
		Content:     mo.Content,
		SourceFile:  mo.SourceFile,
		ChunkNumber: mo.ChunkNumber,
		Metadata:    map[string]interface{}(mo.Metadata),
		Embedding:   mo.Embedding.Slice(),
		CreatedAt:   mo.CreatedAt,
	}
}
