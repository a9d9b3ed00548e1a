package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"paperdex/internal/output"
	"paperdex/internal/tui"
)

type addPaperCmd struct {
	Path   string   `arg:"" help:"PDF file to add"`
	Topics []string `help:"Candidate topics, comma separated"`
}

func (c *addPaperCmd) Run(a *app) error {
	res, err := a.papers.AddPaper(a.ctx, c.Path, c.Topics)
	if err != nil {
		return err
	}
	return a.writeResult("add_paper", res)
}

type searchPaperCmd struct {
	Query     string `arg:"" help:"Search query"`
	TopK      int    `name:"top-k" help:"Number of results (0 uses the configured default)"`
	FilesOnly bool   `help:"Only list matching file paths"`
}

func (c *searchPaperCmd) Run(a *app) error {
	hits, err := a.papers.SearchPapers(a.ctx, c.Query, c.TopK)
	if err != nil {
		return err
	}
	return a.writeLines("search_paper", paperLines(a.rawCmd, c.Query, hits, c.FilesOnly))
}

type searchChunkCmd struct {
	Query string `arg:"" help:"Search query"`
	TopK  int    `name:"top-k" help:"Number of results (0 uses the configured default)"`
}

func (c *searchChunkCmd) Run(a *app) error {
	hits, err := a.papers.SearchChunks(a.ctx, c.Query, c.TopK)
	if err != nil {
		return err
	}
	return a.writeLines("search_chunk", chunkLines(a.rawCmd, c.Query, hits))
}

type searchImageCmd struct {
	Query string `arg:"" help:"Search query"`
	TopK  int    `name:"top-k" help:"Number of results (0 uses the configured default)"`
}

func (c *searchImageCmd) Run(a *app) error {
	hits, err := a.images.SearchImages(a.ctx, c.Query, c.TopK)
	if err != nil {
		return err
	}
	dir, err := a.outputDir("search_image")
	if err != nil {
		return err
	}

	best := ""
	if len(hits) > 0 {
		if best, err = output.CopyUnique(hits[0].Path, dir); err != nil {
			slog.WarnContext(a.ctx, "could not copy best image", "path", hits[0].Path, "err", err)
			best = ""
		}
	}
	if err := output.WriteText(dir, "results.txt", imageLines(a.rawCmd, c.Query, hits, best)); err != nil {
		return err
	}
	a.announce(dir)
	return nil
}

type indexImagesCmd struct {
	Dir string `arg:"" optional:"" help:"Directory to scan (defaults to the images root)"`
}

func (c *indexImagesCmd) Run(a *app) error {
	added, err := a.images.IndexImages(a.ctx, c.Dir)
	if err != nil {
		return err
	}
	return a.writeResult("index_images", added)
}

type organizePapersCmd struct {
	Folder string   `arg:"" help:"Directory containing PDFs"`
	Topics []string `help:"Candidate topics, comma separated"`
}

func (c *organizePapersCmd) Run(a *app) error {
	results, err := a.papers.BatchOrganize(a.ctx, c.Folder, c.Topics)
	if err != nil {
		return err
	}
	return a.writeResult("organize_papers", results)
}

type sortPaperCmd struct {
	Topics []string `help:"Candidate topics, comma separated (defaults to existing topic directories)"`
}

func (c *sortPaperCmd) Run(a *app) error {
	results, err := a.papers.BatchOrganize(a.ctx, a.paths.Papers, c.Topics)
	if err != nil {
		return err
	}
	return a.writeResult("organize_papers", results)
}

type browseCmd struct{}

func (c *browseCmd) Run(a *app) error {
	// keep log lines out of the terminal UI
	logPath := filepath.Join(a.paths.Data, "browse.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))
	defer slog.SetDefault(prev)

	header := "Topics: " + strings.Join(a.papers.KnownTopics(), ", ")
	m := tui.New(a.ctx, a.papers, header)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	return nil
}

