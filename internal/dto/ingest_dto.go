package dto

// PublishChunkMessage is the payload carried on the ingest topic from
// the chunker to the embedding consumer.
type PublishChunkMessage struct {
	Title       string                 `json:"title"`
	Content     string                 `json:"content"`
	SourceFile  string                 `json:"source_file"`
	ChunkNumber int                    `json:"chunk_number"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}
