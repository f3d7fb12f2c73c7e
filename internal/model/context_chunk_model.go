package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ContextChunk struct {
	Id          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string            `gorm:"type:text"`
	Content     string            `gorm:"type:text"`
	SourceFile  string            `gorm:"type:text;index"`
	ChunkNumber int               `gorm:"default:0"` // 1-based index within the source file
	Metadata    datatypes.JSONMap `gorm:"type:jsonb"`
	Embedding   pgvector.Vector   `gorm:"type:vector(768)"` // nomic-embed-text and text-embedding-004 are 768-dim
	CreatedAt   time.Time         `gorm:"autoCreateTime"`
}

func (ContextChunk) TableName() string {
	return "context_chunks"
}
