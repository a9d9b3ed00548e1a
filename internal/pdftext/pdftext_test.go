package pdftext

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractMissingFile(t *testing.T) {
	if _, err := NewExtractor().Extract(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestExtractNotAPDF(t *testing.T) {
	var path = filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("this is plain text, not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewExtractor().Extract(path); err == nil {
		t.Error("Expected error for non-pdf content")
	}
}
