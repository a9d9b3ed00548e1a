package domain

import "context"

// Uncategorized is the topic used when no candidate topics are available.
const Uncategorized = "uncategorized"

// Index names for the three persisted record kinds.
const (
	PaperIndex = "paper_index"
	ChunkIndex = "chunk_index"
	ImageIndex = "image_index"
)

// PaperRecord is the document-level index entry. Path is the unique key.
type PaperRecord struct {
	Path      string    `json:"path"`
	Topics    []string  `json:"topics"`
	Summary   string    `json:"summary"`
	Embedding []float32 `json:"embedding"`
}

// ChunkRecord is a page-level snippet of a paper.
type ChunkRecord struct {
	PaperPath string    `json:"paper_path"`
	Page      int       `json:"page"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// ImageRecord is a captioned image. Path is the unique key.
type ImageRecord struct {
	Path      string    `json:"path"`
	Caption   string    `json:"caption"`
	Embedding []float32 `json:"embedding"`
}

// PageChunk is a bounded snippet of one page, numbered from 1.
type PageChunk struct {
	Page int
	Text string
}

// Embedder converts texts into vectors. targetDim <= 0 means the
// implementation's default dimension.
type Embedder interface {
	Embed(ctx context.Context, texts []string, targetDim int) [][]float32
}

// TopicClassifier picks topics for a document out of a candidate set.
type TopicClassifier interface {
	Classify(ctx context.Context, pages []string, candidates []string) []string
}

// Chunker splits extracted pages into snippets.
type Chunker interface {
	Chunk(pages []string) []PageChunk
}

// TextExtractor returns the text of each page of a document.
type TextExtractor interface {
	Extract(path string) ([]string, error)
}

// Captioner describes an image file.
type Captioner interface {
	Caption(ctx context.Context, path string, prompt string) (string, error)
}
