package chunker

import (
	"strings"

	"paperdex/internal/domain"
)

const (
	DefaultChunkSize = 800
	DefaultMaxChunks = 200
)

// PageChunker splits page text into fixed-size, non-overlapping snippets,
// remembering which page each one came from.
type PageChunker struct {
	size      int
	maxChunks int
}

func NewPageChunker(size, maxChunks int) *PageChunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if maxChunks <= 0 {
		maxChunks = DefaultMaxChunks
	}
	return &PageChunker{size: size, maxChunks: maxChunks}
}

// Chunk walks pages in order. Sizes are counted in characters (runes), and
// the chunk cap applies to the whole document, so it may cut a page short.
func (c *PageChunker) Chunk(pages []string) []domain.PageChunk {
	var chunks []domain.PageChunk
	for i, page := range pages {
		text := []rune(strings.Join(strings.Fields(page), " "))
		for start := 0; start < len(text); start += c.size {
			if len(chunks) >= c.maxChunks {
				return chunks
			}
			end := min(start+c.size, len(text))
			chunks = append(chunks, domain.PageChunk{Page: i + 1, Text: string(text[start:end])})
		}
	}
	return chunks
}
