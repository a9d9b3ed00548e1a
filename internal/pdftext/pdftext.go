package pdftext

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor reads per-page plain text from PDF files.
type Extractor struct{}

func NewExtractor() *Extractor { return &Extractor{} }

// Extract returns one trimmed string per page. Pages whose text cannot be
// decoded come back empty rather than failing the whole document.
func (e *Extractor) Extract(path string) (pages []string, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	// the pdf reader panics on some malformed streams
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, fmt.Errorf("read pdf %s: %v", path, rec)
		}
	}()

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, pageText(r, i, path))
	}
	return pages, nil
}

func pageText(r *pdf.Reader, i int, path string) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Warn("page text extraction failed", "path", path, "page", i, "err", rec)
			text = ""
		}
	}()
	p := r.Page(i)
	if p.V.IsNull() {
		return ""
	}
	t, err := p.GetPlainText(nil)
	if err != nil {
		slog.Warn("page text extraction failed", "path", path, "page", i, "err", err)
		return ""
	}
	return strings.TrimSpace(t)
}
