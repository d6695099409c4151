// Package wadtest builds synthetic WAD archives for tests.
package wadtest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Lump is a named payload to store in a test archive.
type Lump struct {
	Name string
	Data []byte
}

// Entry is a raw directory record, written as given.
type Entry struct {
	Position int32
	Size     int32
	Name     string
}

// Build returns the bytes of a well-formed archive: header, lump payloads
// in order, then the directory.
func Build(tb testing.TB, id string, lumps []Lump) []byte {
	tb.Helper()

	var payload bytes.Buffer
	entries := make([]Entry, len(lumps))
	for i, l := range lumps {
		entries[i] = Entry{
			Position: int32(12 + payload.Len()),
			Size:     int32(len(l.Data)),
			Name:     l.Name,
		}
		payload.Write(l.Data)
	}
	return Raw(tb, id, int32(len(lumps)), int32(12+payload.Len()), payload.Bytes(), entries)
}

// Raw returns an archive with an arbitrary header, payload and directory.
// The directory is written directly after the payload regardless of
// dirOffset, so inconsistent files can be produced on purpose.
func Raw(tb testing.TB, id string, count, dirOffset int32, payload []byte, entries []Entry) []byte {
	tb.Helper()

	var buf bytes.Buffer
	var tag [4]byte
	copy(tag[:], id)
	buf.Write(tag[:])
	require.NoError(tb, binary.Write(&buf, binary.LittleEndian, count))
	require.NoError(tb, binary.Write(&buf, binary.LittleEndian, dirOffset))
	buf.Write(payload)

	for _, e := range entries {
		var name [8]byte
		copy(name[:], e.Name)
		require.NoError(tb, binary.Write(&buf, binary.LittleEndian, e.Position))
		require.NoError(tb, binary.Write(&buf, binary.LittleEndian, e.Size))
		buf.Write(name[:])
	}
	return buf.Bytes()
}

// WriteFile stores data under a fresh temp directory and returns its path.
func WriteFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	require.NoError(tb, os.WriteFile(path, data, 0o644))
	return path
}

// WriteWAD builds a well-formed archive and writes it to a temp file.
func WriteWAD(tb testing.TB, name, id string, lumps ...Lump) string {
	tb.Helper()
	return WriteFile(tb, name, Build(tb, id, lumps))
}
