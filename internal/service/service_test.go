package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"paperdex/internal/chunker"
	"paperdex/internal/classifier"
	"paperdex/internal/embedding"
	"paperdex/internal/index"
	"paperdex/internal/vectorstore/memory"
)

type fakeExtractor struct {
	pages map[string][]string
	fail  map[string]bool
}

func (f *fakeExtractor) Extract(path string) ([]string, error) {
	var name = filepath.Base(path)
	if f.fail[name] {
		return nil, errors.New("broken pdf")
	}
	return f.pages[name], nil
}

type failingChat struct{}

func (failingChat) Complete(context.Context, string, string) (string, error) {
	return "", errors.New("connection refused")
}

type recordingClassifier struct {
	topic      string
	candidates [][]string
}

func (r *recordingClassifier) Classify(_ context.Context, _ []string, candidates []string) []string {
	r.candidates = append(r.candidates, candidates)
	return []string{r.topic}
}

type fixedEmbedder struct {
	vec  []float32
	dims []int
}

func (f *fixedEmbedder) Embed(_ context.Context, texts []string, targetDim int) [][]float32 {
	f.dims = append(f.dims, targetDim)
	var out = make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vec
	}
	return out
}

type env struct {
	root      string
	papersDir string
	inbox     string
	store     index.Store
}

func newEnv(t *testing.T) env {
	t.Helper()
	var root = t.TempDir()
	var e = env{
		root:      root,
		papersDir: filepath.Join(root, "papers"),
		inbox:     filepath.Join(root, "inbox"),
		store:     index.NewFileStore(filepath.Join(root, "data")),
	}
	if err := os.MkdirAll(e.inbox, 0o755); err != nil {
		t.Fatal(err)
	}
	return e
}

// newPaperService wires the real classifier (with a dead chat endpoint),
// chunker, hash embeddings and linear search.
func (e env) newPaperService(ex *fakeExtractor) *PaperService {
	return NewPaperService(PaperDeps{
		Extractor:  ex,
		Classifier: classifier.New(failingChat{}),
		Chunker:    chunker.NewPageChunker(800, 200),
		Embedder:   embedding.NewProvider(embedding.Config{HashDims: 64}),
		Store:      e.store,
		Searcher:   memory.NewSearcher(),
		PapersDir:  e.papersDir,
	})
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
