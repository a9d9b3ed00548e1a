package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"paperdex/internal/chunker"
	"paperdex/internal/classifier"
	"paperdex/internal/config"
	"paperdex/internal/embedding"
	"paperdex/internal/index"
	"paperdex/internal/llm"
	"paperdex/internal/output"
	"paperdex/internal/pdftext"
	"paperdex/internal/service"
	"paperdex/internal/vectorstore/memory"
)

// app holds the wired services shared by every command.
type app struct {
	ctx     context.Context
	cfg     *config.AppConfig
	paths   config.ResolvedPaths
	papers  *service.PaperService
	images  *service.ImageService
	closeFn func() error
	rawCmd  string
	stdout  io.Writer
	now     func() time.Time
}

func newApp(cfgPath, rawCmd string) (*app, error) {
	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return wire(cfg, rawCmd)
}

func wire(cfg *config.AppConfig, rawCmd string) (*app, error) {
	paths, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	for _, dir := range []string{paths.Papers, paths.Images, paths.Data} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	store, closeFn, err := index.Open(cfg.Index.Backend, paths.Data)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.LLM.TimeoutSecs) * time.Second
	key := cfg.APIKey()
	endpoint := func(e config.EndpointConfig) llm.Config {
		return llm.Config{BaseURL: e.BaseURL, APIKey: key, Model: e.Model, Timeout: timeout}
	}

	// papers and images share one provider so a dead embedding server is
	// only probed once per run
	embedder := embedding.NewProvider(embedding.Config{
		Remote:       llm.NewEmbeddings(endpoint(cfg.LLM.Embed)),
		PreferRemote: cfg.PreferRemote(),
		HashDims:     cfg.Embedding.HashDims,
	})
	searcher := memory.NewSearcher()

	papers := service.NewPaperService(service.PaperDeps{
		Extractor:   pdftext.NewExtractor(),
		Classifier:  classifier.New(llm.NewChat(endpoint(cfg.LLM.Text))),
		Chunker:     chunker.NewPageChunker(cfg.Chunker.ChunkSize, cfg.Chunker.MaxChunksPerDoc),
		Embedder:    embedder,
		Store:       store,
		Searcher:    searcher,
		PapersDir:   paths.Papers,
		DefaultTopK: cfg.Search.DefaultTopK,
	})
	images := service.NewImageService(service.ImageDeps{
		Captioner:   llm.NewVision(endpoint(cfg.LLM.Vision)),
		Embedder:    embedder,
		Store:       store,
		Searcher:    searcher,
		ImagesDir:   paths.Images,
		DefaultTopK: cfg.Search.DefaultTopK,
	})

	return &app{
		ctx:     context.Background(),
		cfg:     cfg,
		paths:   paths,
		papers:  papers,
		images:  images,
		closeFn: closeFn,
		rawCmd:  rawCmd,
		stdout:  os.Stdout,
		now:     time.Now,
	}, nil
}

func (a *app) Close() error { return a.closeFn() }

// outputDir creates this invocation's output directory and announces it.
func (a *app) outputDir(command string) (string, error) {
	dir, err := output.Prepare(a.paths.Output, command, a.now())
	if err != nil {
		return "", fmt.Errorf("prepare output dir: %w", err)
	}
	return dir, nil
}

func (a *app) announce(dir string) {
	fmt.Fprintln(a.stdout, dir)
}

func (a *app) writeResult(command string, result any) error {
	dir, err := a.outputDir(command)
	if err != nil {
		return err
	}
	if err := output.WriteJSON(dir, "result.json", map[string]any{"command": a.rawCmd, "result": result}); err != nil {
		return err
	}
	a.announce(dir)
	return nil
}

func (a *app) writeLines(command string, lines []string) error {
	dir, err := a.outputDir(command)
	if err != nil {
		return err
	}
	if err := output.WriteText(dir, "results.txt", lines); err != nil {
		return err
	}
	a.announce(dir)
	return nil
}
