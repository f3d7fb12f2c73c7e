package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkFileSplitsWithOverlap(t *testing.T) {
	c := New(10, 3)
	body := "abcdefghijklmnopqrstuvwxyz" // 26 runes

	chunks := c.ChunkFile("alphabet.md", body)

	// Starts advance by size-overlap = 7: 0, 7, 14, 21.
	assert.Len(t, chunks, 4)
	assert.Equal(t, "abcdefghij", chunks[0].Content)
	assert.Equal(t, "hijklmnopq", chunks[1].Content)
	assert.Equal(t, "opqrstuvwx", chunks[2].Content)
	assert.Equal(t, "vwxyz", chunks[3].Content)

	// Consecutive chunks share the overlap region.
	assert.Equal(t,
		chunks[0].Content[len(chunks[0].Content)-3:],
		chunks[1].Content[:3],
	)

	for i, ch := range chunks {
		assert.Equal(t, i+1, ch.Number)
		assert.Equal(t, "alphabet.md", ch.SourceFile)
		assert.Equal(t, "Alphabet - Chunk "+string(rune('1'+i)), ch.Title)
	}
}

func TestChunkFileSingleChunkWhenShort(t *testing.T) {
	c := New(DefaultChunkSize, DefaultChunkOverlap)

	chunks := c.ChunkFile("notes.md", "short document")
	assert.Len(t, chunks, 1)
	assert.Equal(t, "short document", chunks[0].Content)
	assert.Equal(t, "Notes - Chunk 1", chunks[0].Title)
}

func TestChunkFileEmptyAfterPreparation(t *testing.T) {
	c := New(DefaultChunkSize, DefaultChunkOverlap)
	assert.Nil(t, c.ChunkFile("empty.md", "   \n\n  "))
	assert.Nil(t, c.ChunkFile("empty.md", ""))
}

func TestChunkFileCollapsesExcessiveNewlines(t *testing.T) {
	c := New(DefaultChunkSize, DefaultChunkOverlap)

	chunks := c.ChunkFile("doc.md", "first paragraph\n\n\n\n\nsecond paragraph")
	assert.Len(t, chunks, 1)
	assert.Equal(t, "first paragraph\n\nsecond paragraph", chunks[0].Content)
}

func TestChunkFileFrontMatter(t *testing.T) {
	raw := `---
title: Indexing Basics
category: indexes
---
# Heading

Body text.`

	c := New(DefaultChunkSize, DefaultChunkOverlap)
	chunks := c.ChunkFile("indexing_basics.md", raw)

	assert.Len(t, chunks, 1)
	assert.Equal(t, "Indexing Basics - Chunk 1", chunks[0].Title, "front matter title wins over the file name")
	assert.Equal(t, "# Heading\n\nBody text.", chunks[0].Content)
	assert.Equal(t, "indexes", chunks[0].Metadata["category"])
	assert.NotContains(t, chunks[0].Content, "category:")
}

func TestChunkFileMalformedFrontMatterKept(t *testing.T) {
	raw := "---\ntitle: [unclosed\n---\nbody"

	c := New(DefaultChunkSize, DefaultChunkOverlap)
	chunks := c.ChunkFile("doc.md", raw)

	assert.Len(t, chunks, 1)
	assert.True(t, strings.HasPrefix(chunks[0].Content, "---"), "malformed front matter stays in the body")
	assert.Nil(t, chunks[0].Metadata)
}

func TestChunkFileUnterminatedFrontMatterKept(t *testing.T) {
	raw := "---\ntitle: No End\nbody continues"

	c := New(DefaultChunkSize, DefaultChunkOverlap)
	chunks := c.ChunkFile("doc.md", raw)

	assert.Len(t, chunks, 1)
	assert.True(t, strings.HasPrefix(chunks[0].Content, "---"))
}

func TestBaseTitleFromFileName(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
	}{
		{"ravendb_indexing-basics.md", "Ravendb Indexing Basics"},
		{"Getting-Started.markdown", "Getting Started"},
		{"faq.md", "Faq"},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			assert.Equal(t, tt.want, baseTitleFromFileName(tt.fileName))
		})
	}
}

func TestNewClampsInvalidParameters(t *testing.T) {
	c := New(0, -1)
	assert.Equal(t, DefaultChunkSize, c.size)
	assert.Equal(t, DefaultChunkOverlap, c.overlap)

	// Overlap >= size would loop forever; it falls back to the default.
	c = New(500, 500)
	assert.Equal(t, DefaultChunkOverlap, c.overlap)
}
