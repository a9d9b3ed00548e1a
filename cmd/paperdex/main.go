package main

import (
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

var cli struct {
	Config  string `help:"Path to YAML config file (uses ./config.yaml or ~/.config/paperdex/config.yaml if not provided)" type:"path"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	AddPaper       addPaperCmd       `cmd:"" help:"Classify a PDF, file it under its topic and index it"`
	SearchPaper    searchPaperCmd    `cmd:"" help:"Semantic search over indexed papers"`
	SearchChunk    searchChunkCmd    `cmd:"" help:"Search and return paper snippets"`
	SearchImage    searchImageCmd    `cmd:"" help:"Search images by text"`
	IndexImages    indexImagesCmd    `cmd:"" help:"Caption and index new images"`
	OrganizePapers organizePapersCmd `cmd:"" help:"Classify and file every PDF under a directory"`
	SortPaper      sortPaperCmd      `cmd:"" help:"Re-organize every PDF under the papers root"`
	Browse         browseCmd         `cmd:"" help:"Interactive search browser"`
}

func main() {
	_ = godotenv.Load()

	kctx := kong.Parse(&cli,
		kong.Name("paperdex"),
		kong.Description("Index, classify and search PDF papers and images."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	a, err := newApp(cli.Config, "paperdex "+strings.Join(os.Args[1:], " "))
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	err = kctx.Run(a)
	if cerr := a.Close(); cerr != nil {
		slog.Warn("closing index failed", "err", cerr)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", kctx.Command(), err)
	}
}
