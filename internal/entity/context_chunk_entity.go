package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContextChunk is a chunk of source documentation stored for retrieval.
type ContextChunk struct {
	Id          uuid.UUID
	Title       string
	Content     string
	SourceFile  string
	ChunkNumber int
	Metadata    map[string]interface{}
	Embedding   []float32
	CreatedAt   time.Time
}
