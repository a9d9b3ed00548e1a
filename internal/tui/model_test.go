package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"paperdex/internal/service"
)

type fakePort struct {
	papers     []service.PaperHit
	chunks     []service.ChunkHit
	err        error
	paperCalls int
	chunkCalls int
	lastK      int
}

func (f *fakePort) SearchPapers(_ context.Context, _ string, k int) ([]service.PaperHit, error) {
	f.paperCalls++
	f.lastK = k
	return f.papers, f.err
}

func (f *fakePort) SearchChunks(_ context.Context, _ string, k int) ([]service.ChunkHit, error) {
	f.chunkCalls++
	f.lastK = k
	return f.chunks, f.err
}

func press(m Model, key tea.KeyType) Model {
	var next, _ = m.Update(tea.KeyMsg{Type: key})
	return next.(Model)
}

func typed(m Model, q string) Model {
	m.input.SetValue(q)
	return press(m, tea.KeyEnter)
}

func TestEnterSearchesChunks(t *testing.T) {
	var port = &fakePort{chunks: []service.ChunkHit{
		{PaperPath: "/p/a.pdf", Page: 2, Text: "Robots weld cars. Cats sleep.", Score: 0.9},
		{PaperPath: "/p/b.pdf", Page: 1, Text: "Other text.", Score: 0.2},
	}}
	var m = typed(New(context.Background(), port, ""), "robots")

	if port.chunkCalls != 1 || port.lastK != ResultLimit {
		t.Errorf("Expected one chunk search with k=%d, got %d calls k=%d", ResultLimit, port.chunkCalls, port.lastK)
	}
	if len(m.results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(m.results))
	}
	if !strings.Contains(m.renderCurrentResult(), "/p/a.pdf#page2") {
		t.Errorf("Expected first result title, got %q", m.renderCurrentResult())
	}
}

func TestCursorWraps(t *testing.T) {
	var port = &fakePort{chunks: []service.ChunkHit{{Text: "a"}, {Text: "b"}, {Text: "c"}}}
	var m = typed(New(context.Background(), port, ""), "q")

	m = press(m, tea.KeyUp)
	if m.cursor != 2 {
		t.Errorf("Expected cursor to wrap to 2, got %d", m.cursor)
	}
	m = press(m, tea.KeyDown)
	if m.cursor != 0 {
		t.Errorf("Expected cursor back at 0, got %d", m.cursor)
	}
}

func TestTabSwitchesToPapersAndReruns(t *testing.T) {
	var port = &fakePort{papers: []service.PaperHit{{Path: "/p/a.pdf", Topics: []string{"robotics"}, Summary: "s"}}}
	var m = typed(New(context.Background(), port, ""), "robots")
	m = press(m, tea.KeyTab)

	if m.mode != paperMode {
		t.Fatalf("Expected paper mode")
	}
	if port.paperCalls != 1 {
		t.Errorf("Expected last query rerun against papers, got %d calls", port.paperCalls)
	}
	if !strings.Contains(m.renderCurrentResult(), "(robotics)") {
		t.Errorf("Expected topics in title, got %q", m.renderCurrentResult())
	}
}

func TestSearchError(t *testing.T) {
	var port = &fakePort{err: errors.New("boom")}
	var m = typed(New(context.Background(), port, ""), "q")

	if !strings.Contains(m.status, "boom") {
		t.Errorf("Expected error in status, got %q", m.status)
	}
	if m.results != nil {
		t.Error("Expected results cleared")
	}
}

func TestEmptyQueryIgnored(t *testing.T) {
	var port = &fakePort{}
	typed(New(context.Background(), port, ""), "   ")

	if port.chunkCalls != 0 {
		t.Errorf("Expected no search for blank query, got %d", port.chunkCalls)
	}
}

func TestSplitSentencesKeepsTail(t *testing.T) {
	var got = splitSentences("First one. Second one! trailing words")

	if len(got) != 3 || got[2] != "trailing words" {
		t.Errorf("Expected tail kept, got %q", got)
	}
}

func TestHighlightPicksBestSentence(t *testing.T) {
	var text = "Cats sleep a lot. Robots weld car frames. Dogs bark."
	var got = highlightBestSentence(text, "robots weld")

	if !strings.Contains(got, "Robots weld car frames.") {
		t.Errorf("Expected best sentence present, got %q", got)
	}
	if highlightBestSentence("   ", "q") != "   " {
		t.Error("Expected blank text unchanged")
	}
}
