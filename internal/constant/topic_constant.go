package constant

// ChunkIngestTopic carries freshly split document chunks from the
// chunker to the embedding consumer.
const ChunkIngestTopic = "chunks.ingest"
