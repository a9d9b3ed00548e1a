package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
)

// Store persists one named index as an opaque JSON document. Read returns an
// error wrapping fs.ErrNotExist when the index has never been written.
type Store interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
}

// Load decodes the named index as a JSON array. A missing, unreadable or
// corrupt index loads as empty.
func Load[T any](store Store, name string) []T {
	data, err := store.Read(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("index unreadable, starting empty", "index", name, "err", err)
		}
		return []T{}
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("index corrupt, starting empty", "index", name, "err", err)
		return []T{}
	}
	if records == nil {
		return []T{}
	}
	return records
}

// Save replaces the named index with records.
func Save[T any](store Store, name string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := store.Write(name, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Open returns the store for the configured backend ("json" or "bolt")
// rooted at dir, along with a close func.
func Open(backend, dir string) (Store, func() error, error) {
	switch backend {
	case "json", "":
		return NewFileStore(dir), func() error { return nil }, nil
	case "bolt":
		st, err := NewBoltStore(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt index: %w", err)
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown index backend: %s", backend)
	}
}
