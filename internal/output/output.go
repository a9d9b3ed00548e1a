package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const timeLayout = "2006-01-02_15-04-05"

// Prepare creates a fresh directory under root named after the time and the
// command, adding _1, _2, ... when the same second was already used.
func Prepare(root, command string, now time.Time) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", err
	}
	base := now.Format(timeLayout) + "_" + command
	candidate := filepath.Join(root, base)
	for n := 1; ; n++ {
		err := os.Mkdir(candidate, 0o755)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
		candidate = filepath.Join(root, fmt.Sprintf("%s_%d", base, n))
	}
}

// WriteJSON writes v as indented JSON to dir/name.
func WriteJSON(dir, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

// WriteText writes lines joined by newlines to dir/name.
func WriteText(dir, name string, lines []string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(strings.Join(lines, "\n")), 0o644)
}

// CopyUnique copies src into dir keeping its base name, or stem_N.ext if
// that name is taken. It returns the destination path.
func CopyUnique(src, dir string) (string, error) {
	name := filepath.Base(src)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	dest := filepath.Join(dir, name)
	for n := 1; exists(dest); n++ {
		dest = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
	if err := copyFile(src, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dest, info.ModTime(), info.ModTime())
}
