package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"paperdex/internal/domain"
	"paperdex/internal/index"
	"paperdex/internal/vectorstore"
)

const (
	// DocTextChars bounds the text used for the document-level embedding.
	DocTextChars = 5000
	// SummaryChars bounds the stored summary excerpt.
	SummaryChars = 500
)

var pdfExts = map[string]struct{}{".pdf": {}}

// AddResult reports where a paper was filed and how many chunks were indexed.
type AddResult struct {
	Path          string   `json:"path"`
	Topics        []string `json:"topics"`
	ChunksIndexed int      `json:"chunks_indexed"`
}

// PaperHit is a scored paper search result.
type PaperHit struct {
	Path    string   `json:"path"`
	Topics  []string `json:"topics"`
	Summary string   `json:"summary"`
	Score   float64  `json:"score"`
}

// ChunkHit is a scored snippet search result.
type ChunkHit struct {
	PaperPath string  `json:"paper_path"`
	Page      int     `json:"page"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
}

// PaperDeps wires a PaperService.
type PaperDeps struct {
	Extractor   domain.TextExtractor
	Classifier  domain.TopicClassifier
	Chunker     domain.Chunker
	Embedder    domain.Embedder
	Store       index.Store
	Searcher    vectorstore.Searcher
	PapersDir   string
	DefaultTopK int
}

// PaperService files PDF papers into topic directories and keeps the paper
// and chunk indexes in step with them.
type PaperService struct {
	extractor   domain.TextExtractor
	classifier  domain.TopicClassifier
	chunker     domain.Chunker
	embedder    domain.Embedder
	store       index.Store
	searcher    vectorstore.Searcher
	papersDir   string
	defaultTopK int
}

func NewPaperService(deps PaperDeps) *PaperService {
	return &PaperService{
		extractor:   deps.Extractor,
		classifier:  deps.Classifier,
		chunker:     deps.Chunker,
		embedder:    deps.Embedder,
		store:       deps.Store,
		searcher:    deps.Searcher,
		papersDir:   deps.PapersDir,
		defaultTopK: deps.DefaultTopK,
	}
}

// AddPaper classifies the PDF at path, moves it under the papers root into
// the directory of its first topic, and (re)indexes it. Adding the same
// filed path again replaces its paper record and all of its chunks.
func (s *PaperService) AddPaper(ctx context.Context, path string, topics []string) (AddResult, error) {
	src, err := filepath.Abs(path)
	if err != nil {
		return AddResult{}, err
	}
	if err := requireExists(src); err != nil {
		return AddResult{}, err
	}
	candidates := CleanTopics(topics)

	pages, err := s.extractor.Extract(src)
	if err != nil {
		return AddResult{}, fmt.Errorf("extract %s: %w", src, err)
	}

	chosen := s.classifier.Classify(ctx, pages, candidates)
	if len(chosen) == 0 {
		chosen = []string{domain.Uncategorized}
	}

	dest, err := s.file(src, chosen[0])
	if err != nil {
		return AddResult{}, err
	}
	slog.DebugContext(ctx, "paper filed", "from", src, "to", dest, "topics", chosen)

	docText := truncateRunes(strings.Join(pages, " "), DocTextChars)
	docVec := s.embedder.Embed(ctx, []string{docText}, 0)[0]

	chunks := s.chunker.Chunk(pages)
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vecs := s.embedder.Embed(ctx, texts, 0)

	stale := map[string]struct{}{dest: {}, src: {}}

	papers := index.Load[domain.PaperRecord](s.store, domain.PaperIndex)
	papers = filterOut(papers, func(p domain.PaperRecord) bool { _, ok := stale[p.Path]; return ok })
	papers = append(papers, domain.PaperRecord{
		Path:      dest,
		Topics:    chosen,
		Summary:   truncateRunes(docText, SummaryChars),
		Embedding: docVec,
	})

	records := index.Load[domain.ChunkRecord](s.store, domain.ChunkIndex)
	records = filterOut(records, func(c domain.ChunkRecord) bool { _, ok := stale[c.PaperPath]; return ok })
	for i, c := range chunks {
		records = append(records, domain.ChunkRecord{
			PaperPath: dest,
			Page:      c.Page,
			Text:      c.Text,
			Embedding: vecs[i],
		})
	}

	// chunks go first so a paper record never points at missing chunks
	if err := index.Save(s.store, domain.ChunkIndex, records); err != nil {
		return AddResult{}, err
	}
	if err := index.Save(s.store, domain.PaperIndex, papers); err != nil {
		return AddResult{}, err
	}

	return AddResult{Path: dest, Topics: chosen, ChunksIndexed: len(chunks)}, nil
}

// file moves src into the topic directory and returns its new path. A file
// that already sits at its destination stays where it is.
func (s *PaperService) file(src, topic string) (string, error) {
	dir := filepath.Join(s.papersDir, topic)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(dir, filepath.Base(src))
	if samePath(src, dest) {
		return dest, nil
	}
	dest, err := freeName(dest)
	if err != nil {
		return "", err
	}
	if err := moveFile(src, dest); err != nil {
		return "", fmt.Errorf("move %s: %w", src, err)
	}
	return dest, nil
}

// BatchOrganize adds every PDF under dir. Without explicit topics the
// existing topic directories of the papers root are the candidates. Files
// that fail are logged and left out of the result.
func (s *PaperService) BatchOrganize(ctx context.Context, dir string, topics []string) ([]AddResult, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := requireExists(root); err != nil {
		return nil, err
	}

	candidates := CleanTopics(topics)
	if len(candidates) == 0 {
		candidates = s.KnownTopics()
	}
	if len(candidates) == 0 {
		candidates = []string{domain.Uncategorized}
	}

	// the list is fixed before any file moves so moved files are not seen twice
	files, err := listFiles(root, pdfExts)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	results := []AddResult{}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := s.AddPaper(ctx, f, candidates)
		if err != nil {
			slog.ErrorContext(ctx, "failed to add paper", "path", f, "err", err)
			continue
		}
		slog.InfoContext(ctx, "paper added", "path", res.Path, "topics", res.Topics, "chunks", res.ChunksIndexed)
		results = append(results, res)
	}
	return results, nil
}

// KnownTopics lists the topic directories under the papers root, sorted,
// without the uncategorized directory.
func (s *PaperService) KnownTopics() []string {
	entries, err := os.ReadDir(s.papersDir)
	if err != nil {
		return nil
	}
	var topics []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != domain.Uncategorized {
			topics = append(topics, e.Name())
		}
	}
	sort.Strings(topics)
	return topics
}

// SearchPapers ranks indexed papers against query. An empty index gives an
// empty result.
func (s *PaperService) SearchPapers(ctx context.Context, query string, k int) ([]PaperHit, error) {
	papers := index.Load[domain.PaperRecord](s.store, domain.PaperIndex)
	hits, err := rank(ctx, s.embedder, s.searcher, papers,
		func(p domain.PaperRecord) []float32 { return p.Embedding }, query, topK(k, s.defaultTopK))
	if err != nil {
		return nil, err
	}

	out := make([]PaperHit, len(hits))
	for i, h := range hits {
		p := papers[h.Index]
		out[i] = PaperHit{Path: p.Path, Topics: p.Topics, Summary: p.Summary, Score: h.Score}
	}
	return out, nil
}

// SearchChunks ranks indexed snippets against query.
func (s *PaperService) SearchChunks(ctx context.Context, query string, k int) ([]ChunkHit, error) {
	chunks := index.Load[domain.ChunkRecord](s.store, domain.ChunkIndex)
	hits, err := rank(ctx, s.embedder, s.searcher, chunks,
		func(c domain.ChunkRecord) []float32 { return c.Embedding }, query, topK(k, s.defaultTopK))
	if err != nil {
		return nil, err
	}

	out := make([]ChunkHit, len(hits))
	for i, h := range hits {
		c := chunks[h.Index]
		out[i] = ChunkHit{PaperPath: c.PaperPath, Page: c.Page, Text: c.Text, Score: h.Score}
	}
	return out, nil
}

func filterOut[T any](records []T, drop func(T) bool) []T {
	out := records[:0]
	for _, r := range records {
		if !drop(r) {
			out = append(out, r)
		}
	}
	return out
}
