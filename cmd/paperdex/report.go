package main

import (
	"fmt"
	"strings"

	"paperdex/internal/service"
)

func header(rawCmd, query string) []string {
	return []string{"Command: " + rawCmd, "Query: " + query, ""}
}

func paperLines(rawCmd, query string, hits []service.PaperHit, filesOnly bool) []string {
	lines := header(rawCmd, query)
	if len(hits) == 0 {
		return append(lines, "No indexed papers found. Add some with add-paper first.")
	}
	for _, h := range hits {
		if filesOnly {
			lines = append(lines, h.Path)
			continue
		}
		lines = append(lines, fmt.Sprintf("[%.3f] %s (%s)", h.Score, h.Path, strings.Join(h.Topics, ", ")))
		if h.Summary != "" {
			lines = append(lines, "    "+preview(h.Summary, 200))
		}
	}
	return lines
}

func chunkLines(rawCmd, query string, hits []service.ChunkHit) []string {
	lines := header(rawCmd, query)
	if len(hits) == 0 {
		return append(lines, "No snippet index found. Add papers first.")
	}
	for _, h := range hits {
		lines = append(lines, fmt.Sprintf("[%.3f] %s#page%d: %s", h.Score, h.PaperPath, h.Page, preview(h.Text, 220)))
	}
	return lines
}

func imageLines(rawCmd, query string, hits []service.ImageHit, copied string) []string {
	lines := header(rawCmd, query)
	if len(hits) == 0 {
		return append(lines, "No indexed images under the images directory. Add some images first.")
	}
	for _, h := range hits {
		lines = append(lines, fmt.Sprintf("[%.3f] %s :: %s", h.Score, h.Path, preview(h.Caption, 160)))
	}
	if copied != "" {
		lines = append(lines, "", "Best match copied to: "+copied)
	}
	return lines
}

// preview cuts s to n characters and flattens newlines.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return strings.ReplaceAll(string(r), "\n", " ")
}
