package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"paperdex/internal/config"
	"paperdex/internal/service"
)

// newTestApp wires the real services against a temp tree and a model server
// that always fails, so every remote call takes the local fallback.
func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	var srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"down"}}`, http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	var base = t.TempDir()
	var off = false
	var cfg = &config.AppConfig{
		Paths: config.PathsConfig{BaseDir: base, PapersDir: "papers", ImagesDir: "images", DataDir: "data", OutputDir: "output"},
		LLM: config.LLMConfig{
			Text:        config.EndpointConfig{BaseURL: srv.URL, Model: "qwen"},
			Embed:       config.EndpointConfig{BaseURL: srv.URL, Model: "qwen_emb"},
			Vision:      config.EndpointConfig{BaseURL: srv.URL, Model: "llava"},
			APIKeyEnv:   "PAPERDEX_TEST_KEY",
			TimeoutSecs: 5,
		},
		Embedding: config.EmbeddingConfig{PreferRemote: &off, HashDims: 256},
		Chunker:   config.ChunkerConfig{ChunkSize: 800, MaxChunksPerDoc: 200},
		Index:     config.IndexConfig{Backend: "json"},
		Search:    config.SearchConfig{DefaultTopK: 5},
	}

	a, err := wire(cfg, "paperdex test")
	if err != nil {
		t.Fatalf("wire failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	var out bytes.Buffer
	a.stdout = &out
	a.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return a, &out
}

func announced(t *testing.T, out *bytes.Buffer) string {
	t.Helper()
	var dir = strings.TrimSpace(out.String())
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("Expected announced output dir, got %q", dir)
	}
	return dir
}

func TestSearchPaperEmptyIndex(t *testing.T) {
	var a, out = newTestApp(t)

	if err := (&searchPaperCmd{Query: "robots"}).Run(a); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var dir = announced(t, out)
	if filepath.Base(dir) != "2024-01-02_03-04-05_search_paper" {
		t.Errorf("Unexpected output dir %s", filepath.Base(dir))
	}
	data, _ := os.ReadFile(filepath.Join(dir, "results.txt"))
	if !strings.Contains(string(data), "No indexed papers found") {
		t.Errorf("Expected explanatory line, got %q", data)
	}
}

func TestSearchImageCopiesBest(t *testing.T) {
	var a, out = newTestApp(t)
	var img = filepath.Join(a.paths.Images, "red_robot.png")
	if err := os.WriteFile(img, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := (&searchImageCmd{Query: "red robot"}).Run(a); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var dir = announced(t, out)
	if _, err := os.Stat(filepath.Join(dir, "red_robot.png")); err != nil {
		t.Errorf("Expected best image copied: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "results.txt"))
	if !strings.Contains(string(data), ":: red_robot") {
		t.Errorf("Expected stem caption in results, got %q", data)
	}
}

func TestIndexImagesWritesResult(t *testing.T) {
	var a, out = newTestApp(t)
	_ = os.WriteFile(filepath.Join(a.paths.Images, "cat.jpg"), []byte("jpg"), 0o644)

	if err := (&indexImagesCmd{}).Run(a); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(announced(t, out), "result.json"))
	if err != nil {
		t.Fatalf("Expected result.json: %v", err)
	}
	if !strings.Contains(string(data), `"command": "paperdex test"`) || !strings.Contains(string(data), "cat.jpg") {
		t.Errorf("Unexpected result.json %s", data)
	}
}

func TestAddPaperMissingFile(t *testing.T) {
	var a, out = newTestApp(t)

	if err := (&addPaperCmd{Path: filepath.Join(a.paths.Papers, "missing.pdf")}).Run(a); err == nil {
		t.Error("Expected error for missing file")
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output dir announced, got %q", out.String())
	}
}

func TestPaperLines(t *testing.T) {
	var hits = []service.PaperHit{{Path: "/p/a.pdf", Topics: []string{"ml", "cv"}, Summary: "line one\nline two", Score: 0.98765}}

	var full = paperLines("cmd", "q", hits, false)
	if full[3] != "[0.988] /p/a.pdf (ml, cv)" {
		t.Errorf("Unexpected result line %q", full[3])
	}
	if full[4] != "    line one line two" {
		t.Errorf("Unexpected summary line %q", full[4])
	}

	var files = paperLines("cmd", "q", hits, true)
	if len(files) != 4 || files[3] != "/p/a.pdf" {
		t.Errorf("Expected path only, got %q", files)
	}
}

func TestChunkLines(t *testing.T) {
	var hits = []service.ChunkHit{{PaperPath: "/p/a.pdf", Page: 3, Text: strings.Repeat("x", 300), Score: 0.5}}
	var lines = chunkLines("cmd", "q", hits)

	if !strings.HasPrefix(lines[3], "[0.500] /p/a.pdf#page3: ") {
		t.Errorf("Unexpected line %q", lines[3])
	}
	if got := len(strings.TrimPrefix(lines[3], "[0.500] /p/a.pdf#page3: ")); got != 220 {
		t.Errorf("Expected 220-char preview, got %d", got)
	}
	if empty := chunkLines("cmd", "q", nil); !strings.Contains(empty[3], "No snippet index") {
		t.Errorf("Expected explanatory line, got %q", empty)
	}
}
