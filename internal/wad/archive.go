package wad

import (
	"fmt"
	"iter"
	"log/slog"
	"os"
)

// Archive is one opened WAD file. It owns the file handle until Close.
//
// An Archive is not safe for concurrent use: lump reads move a shared
// file position.
type Archive struct {
	path   string
	file   *os.File
	cur    *cursor
	header Header
	dir    *directory
}

// Open opens the archive at path and parses its header and directory.
// On any failure the file is closed and no Archive is returned.
func Open(path string) (*Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}

	a, err := newArchive(path, file, info.Size())
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("loading archive %s: %w", path, err)
	}

	slog.Debug("Archive loaded", "path", path, "type", a.header.Type(), "lump_count", a.header.LumpCount)
	return a, nil
}

func newArchive(path string, file *os.File, size int64) (*Archive, error) {
	cur := newCursor(file)

	header, err := readHeader(cur)
	if err != nil {
		return nil, err
	}

	dir, err := readDirectory(cur, header, size)
	if err != nil {
		return nil, err
	}

	return &Archive{
		path:   path,
		file:   file,
		cur:    cur,
		header: header,
		dir:    dir,
	}, nil
}

// Close releases the file handle. Calling Close more than once is a no-op.
func (a *Archive) Close() error {
	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	if err != nil {
		return fmt.Errorf("closing archive %s: %w", a.path, err)
	}
	return nil
}

// Path returns the filesystem path the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Header returns the validated archive header.
func (a *Archive) Header() Header {
	return a.header
}

// Len returns the number of directory entries.
func (a *Archive) Len() int {
	return a.dir.Len()
}

// Find returns the index of the first lump called name.
func (a *Archive) Find(name string) (int, bool) {
	return a.dir.Find(name)
}

// Lump returns the directory entry at index.
func (a *Archive) Lump(index int) (Lump, error) {
	return a.dir.Lump(index)
}

// Lumps iterates the directory in on-disk order.
func (a *Archive) Lumps() iter.Seq2[int, Lump] {
	return a.dir.All()
}

// Data reads the raw bytes of the lump at index. Each call returns a new
// buffer; marker lumps yield an empty, non-nil slice.
func (a *Archive) Data(index int) ([]byte, error) {
	lump, err := a.dir.Lump(index)
	if err != nil {
		return nil, err
	}
	if a.file == nil {
		return nil, &LumpError{Op: "read", Name: lump.Name, Err: os.ErrClosed}
	}
	if lump.IsMarker() {
		return []byte{}, nil
	}

	if err := a.cur.Seek(int64(lump.Position)); err != nil {
		return nil, &LumpError{Op: "read", Name: lump.Name, Err: err}
	}
	data, err := a.cur.ReadExact(int(lump.Size))
	if err != nil {
		return nil, &LumpError{Op: "read", Name: lump.Name, Err: err}
	}
	return data, nil
}
