package wad

import (
	"errors"
	"fmt"
	"io/fs"
)

// Error kinds returned by this package. Callers match them with errors.Is.
var (
	// ErrOpen is returned when an archive file cannot be opened.
	ErrOpen = errors.New("cannot open archive")

	// ErrInvalidFormat is returned when the header or a directory entry fails validation.
	ErrInvalidFormat = errors.New("invalid archive format")

	// ErrShortRead is returned when fewer bytes are available than requested.
	ErrShortRead = errors.New("short read")

	// ErrOutOfRange is returned for a lump index outside the directory.
	ErrOutOfRange = errors.New("lump index out of range")

	// ErrNotFound is returned when no archive contains the requested lump.
	// It also matches fs.ErrNotExist.
	ErrNotFound = fmt.Errorf("lump not found: %w", fs.ErrNotExist)
)

// LumpError records a failure attributable to a single named lump.
type LumpError struct {
	Op   string
	Name string
	Err  error
}

func (e *LumpError) Error() string {
	return fmt.Sprintf("%s lump %q: %v", e.Op, e.Name, e.Err)
}

func (e *LumpError) Unwrap() error {
	return e.Err
}
