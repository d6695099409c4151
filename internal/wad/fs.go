package wad

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"slices"
	"strings"
	"time"
)

// FS presents the lumps a Manager resolves as a flat, read-only file
// system. Each file holds the data of the lump that wins under the
// Manager's policy. Lump names that are not valid fs paths are omitted
// from the root listing.
type FS struct {
	m *Manager
}

// FS returns a file system view over m.
func (m *Manager) FS() *FS {
	return &FS{m: m}
}

// Open implements fs.FS. Lump data is read when the file is opened.
func (f *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	if name == "." {
		return &lumpDir{entries: f.entries()}, nil
	}
	// The root is flat. Lump names with a slash are not listed, so they
	// cannot be opened either.
	if strings.Contains(name, "/") {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	idx, err := f.m.Resolve(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	lump, err := f.m.Lump(idx)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	data, err := f.m.Data(idx)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	return &lumpFile{
		info:   lumpInfo{lump: lump},
		reader: bytes.NewReader(data),
	}, nil
}

// entries lists every resolvable lump name once, sorted by name.
func (f *FS) entries() []lumpInfo {
	seen := make(map[string]bool)
	var infos []lumpInfo
	for _, a := range f.m.archives {
		for _, lump := range a.Lumps() {
			if seen[lump.Name] || !fs.ValidPath(lump.Name) || lump.Name == "." || strings.Contains(lump.Name, "/") {
				continue
			}
			seen[lump.Name] = true

			idx, err := f.m.Resolve(lump.Name)
			if err != nil {
				continue
			}
			winner, err := f.m.Lump(idx)
			if err != nil {
				continue
			}
			infos = append(infos, lumpInfo{lump: winner})
		}
	}

	slices.SortFunc(infos, func(a, b lumpInfo) int {
		return strings.Compare(a.lump.Name, b.lump.Name)
	})
	return infos
}

// lumpFile implements fs.File for a single lump
type lumpFile struct {
	info   lumpInfo
	reader *bytes.Reader
}

func (lf *lumpFile) Read(p []byte) (int, error) {
	return lf.reader.Read(p)
}

func (lf *lumpFile) Seek(offset int64, whence int) (int64, error) {
	return lf.reader.Seek(offset, whence)
}

func (lf *lumpFile) ReadAt(p []byte, off int64) (int, error) {
	return lf.reader.ReadAt(p, off)
}

func (lf *lumpFile) Stat() (fs.FileInfo, error) {
	return lf.info, nil
}

func (lf *lumpFile) Close() error {
	return nil
}

// lumpInfo implements fs.FileInfo and fs.DirEntry for a lump
type lumpInfo struct {
	lump Lump
}

func (li lumpInfo) Name() string               { return li.lump.Name }
func (li lumpInfo) Size() int64                { return int64(li.lump.Size) }
func (li lumpInfo) Mode() fs.FileMode          { return 0o444 }
func (li lumpInfo) ModTime() time.Time         { return time.Unix(0, 0) }
func (li lumpInfo) IsDir() bool                { return false }
func (li lumpInfo) Sys() any                   { return li.lump }
func (li lumpInfo) Type() fs.FileMode          { return 0 }
func (li lumpInfo) Info() (fs.FileInfo, error) { return li, nil }

// lumpDir implements fs.ReadDirFile for the root directory
type lumpDir struct {
	entries []lumpInfo
	offset  int
}

func (ld *lumpDir) Read(p []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: ".", Err: errors.New("is a directory")}
}

func (ld *lumpDir) Close() error {
	return nil
}

func (ld *lumpDir) Stat() (fs.FileInfo, error) {
	return rootInfo{}, nil
}

func (ld *lumpDir) ReadDir(n int) ([]fs.DirEntry, error) {
	remaining := ld.entries[ld.offset:]
	if n > 0 && len(remaining) == 0 {
		return nil, io.EOF
	}
	if n > 0 && n < len(remaining) {
		remaining = remaining[:n]
	}

	dirents := make([]fs.DirEntry, len(remaining))
	for i := range remaining {
		dirents[i] = remaining[i]
	}
	ld.offset += len(remaining)
	return dirents, nil
}

// rootInfo implements fs.FileInfo for the root directory
type rootInfo struct{}

func (rootInfo) Name() string       { return "." }
func (rootInfo) Size() int64        { return 0 }
func (rootInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o555 }
func (rootInfo) ModTime() time.Time { return time.Unix(0, 0) }
func (rootInfo) IsDir() bool        { return true }
func (rootInfo) Sys() any           { return nil }
