package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"paperdex/internal/domain"
	"paperdex/internal/index"
	"paperdex/internal/vectorstore"
)

// CaptionPrompt is sent with every image to the vision model.
const CaptionPrompt = "Describe the image briefly (<=40 words) focusing on what a user might search for. " +
	"Do not add extra commentary."

var imageExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".bmp":  {},
	".gif":  {},
}

// ImageHit is a scored image search result.
type ImageHit struct {
	Path    string  `json:"path"`
	Caption string  `json:"caption"`
	Score   float64 `json:"score"`
}

// ImageDeps wires an ImageService.
type ImageDeps struct {
	Captioner   domain.Captioner
	Embedder    domain.Embedder
	Store       index.Store
	Searcher    vectorstore.Searcher
	ImagesDir   string
	DefaultTopK int
}

// ImageService captions images and searches them by caption.
type ImageService struct {
	captioner   domain.Captioner
	embedder    domain.Embedder
	store       index.Store
	searcher    vectorstore.Searcher
	imagesDir   string
	defaultTopK int
}

func NewImageService(deps ImageDeps) *ImageService {
	return &ImageService{
		captioner:   deps.Captioner,
		embedder:    deps.Embedder,
		store:       deps.Store,
		searcher:    deps.Searcher,
		imagesDir:   deps.ImagesDir,
		defaultTopK: deps.DefaultTopK,
	}
}

// IndexImages captions and indexes every image under dir that is not
// indexed yet and returns the new records. An empty dir means the images
// root. The index is written once, and only when something was added.
func (s *ImageService) IndexImages(ctx context.Context, dir string) ([]domain.ImageRecord, error) {
	if dir == "" {
		dir = s.imagesDir
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := requireExists(root); err != nil {
		return nil, err
	}

	files, err := listFiles(root, imageExts)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	records := index.Load[domain.ImageRecord](s.store, domain.ImageIndex)
	indexed := pathSet(records)

	var paths, captions []string
	for _, f := range files {
		if _, ok := indexed[f]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		paths = append(paths, f)
		captions = append(captions, s.caption(ctx, f))
	}
	if len(paths) == 0 {
		return []domain.ImageRecord{}, nil
	}

	vecs := s.embedder.Embed(ctx, captions, 0)
	added := make([]domain.ImageRecord, len(paths))
	for i := range paths {
		added[i] = domain.ImageRecord{Path: paths[i], Caption: captions[i], Embedding: vecs[i]}
	}
	records = append(records, added...)
	if err := index.Save(s.store, domain.ImageIndex, records); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "images indexed", "dir", root, "added", len(added))
	return added, nil
}

// caption falls back to the file stem when the vision call fails.
func (s *ImageService) caption(ctx context.Context, path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if s.captioner == nil {
		return stem
	}
	c, err := s.captioner.Caption(ctx, path, CaptionPrompt)
	if err != nil {
		slog.WarnContext(ctx, "vision caption failed, using file name", "path", path, "err", err)
		return stem
	}
	return c
}

// SearchImages ranks indexed images against query. New images under the
// images root are indexed first.
func (s *ImageService) SearchImages(ctx context.Context, query string, k int) ([]ImageHit, error) {
	if err := os.MkdirAll(s.imagesDir, 0o755); err != nil {
		return nil, err
	}

	records := index.Load[domain.ImageRecord](s.store, domain.ImageIndex)
	stale, err := s.hasUnindexed(records)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || stale {
		if _, err := s.IndexImages(ctx, s.imagesDir); err != nil {
			return nil, err
		}
		records = index.Load[domain.ImageRecord](s.store, domain.ImageIndex)
	}

	hits, err := rank(ctx, s.embedder, s.searcher, records,
		func(r domain.ImageRecord) []float32 { return r.Embedding }, query, topK(k, s.defaultTopK))
	if err != nil {
		return nil, err
	}

	out := make([]ImageHit, len(hits))
	for i, h := range hits {
		r := records[h.Index]
		out[i] = ImageHit{Path: r.Path, Caption: r.Caption, Score: h.Score}
	}
	return out, nil
}

func (s *ImageService) hasUnindexed(records []domain.ImageRecord) (bool, error) {
	root, err := filepath.Abs(s.imagesDir)
	if err != nil {
		return false, err
	}
	files, err := listFiles(root, imageExts)
	if err != nil {
		return false, err
	}
	indexed := pathSet(records)
	for _, f := range files {
		if _, ok := indexed[f]; !ok {
			return true, nil
		}
	}
	return false, nil
}

func pathSet(records []domain.ImageRecord) map[string]struct{} {
	set := make(map[string]struct{}, len(records))
	for _, r := range records {
		set[r.Path] = struct{}{}
	}
	return set
}
