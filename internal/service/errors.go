package service

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotFound is returned when an input file or directory does not exist.
	ErrNotFound = fmt.Errorf("path does not exist: %w", fs.ErrNotExist)
	// ErrNameExhausted is returned when no free collision suffix is left.
	ErrNameExhausted = errors.New("no free file name left")
)
