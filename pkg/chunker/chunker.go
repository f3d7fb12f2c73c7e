package chunker

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

const (
	DefaultChunkSize    = 3000
	DefaultChunkOverlap = 450
)

var excessiveNewlines = regexp.MustCompile(`\n{3,}`)

// Chunk is one overlapping slice of a source document, ready for
// embedding and storage.
type Chunk struct {
	Title      string
	Content    string
	SourceFile string
	Number     int // 1-based within the source file
	Metadata   map[string]interface{}
}

// Chunker splits markdown documents into overlapping fixed-size chunks.
// Markdown structure (headings, code blocks, lists) is preserved; only
// front matter is removed and excessive blank lines are collapsed.
type Chunker struct {
	size    int
	overlap int
}

func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}
	return &Chunker{
		size:    size,
		overlap: overlap,
	}
}

// ChunkFile prepares the raw markdown and splits it. Returns nil when
// nothing remains after preparation.
func (c *Chunker) ChunkFile(fileName string, raw string) []Chunk {
	meta, body := parseFrontMatter(raw)
	body = strings.TrimSpace(excessiveNewlines.ReplaceAllString(body, "\n\n"))
	if body == "" {
		return nil
	}

	baseTitle := baseTitleFromFileName(fileName)
	if t, ok := meta["title"].(string); ok && strings.TrimSpace(t) != "" {
		baseTitle = strings.TrimSpace(t)
	}

	runes := []rune(body)
	var chunks []Chunk
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}

		number := len(chunks) + 1
		chunks = append(chunks, Chunk{
			Title:      baseTitle + " - Chunk " + strconv.Itoa(number),
			Content:    string(runes[start:end]),
			SourceFile: fileName,
			Number:     number,
			Metadata:   meta,
		})

		start += c.size - c.overlap
		if start >= len(runes) {
			break
		}
	}

	return chunks
}

// parseFrontMatter strips a leading YAML front matter block and returns
// its fields plus the markdown body. A malformed block is left in place.
func parseFrontMatter(raw string) (map[string]interface{}, string) {
	if !strings.HasPrefix(raw, "---\n") && !strings.HasPrefix(raw, "---\r\n") {
		return nil, raw
	}

	rest := raw[strings.Index(raw, "\n")+1:]
	endIdx := strings.Index(rest, "\n---")
	if endIdx < 0 {
		return nil, raw
	}

	block := rest[:endIdx]
	body := rest[endIdx+len("\n---"):]
	if i := strings.Index(body, "\n"); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}

	var meta map[string]interface{}
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return nil, raw
	}
	return meta, body
}

// baseTitleFromFileName derives a display title from the file stem:
// "ravendb_indexing-basics.md" becomes "Ravendb Indexing Basics".
func baseTitleFromFileName(fileName string) string {
	stem := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)

	words := strings.Fields(stem)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
