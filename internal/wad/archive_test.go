package wad

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchantrell/waddb/internal/wad/wadtest"
)

// mustOpen opens an archive or fails the test, closing it on cleanup.
func mustOpen(tb testing.TB, path string) *Archive {
	tb.Helper()
	a, err := Open(path)
	require.NoError(tb, err, "Open failed")
	tb.Cleanup(func() { a.Close() })
	return a
}

func TestArchiveRoundTrip(t *testing.T) {
	t.Parallel()

	lumps := []wadtest.Lump{
		{Name: "PLAYPAL", Data: []byte{1, 2, 3, 4, 5, 6}},
		{Name: "E1M1", Data: nil},
		{Name: "THINGS", Data: []byte("things data")},
		{Name: "LINEDEFS", Data: []byte("eight ch")},
	}
	path := wadtest.WriteWAD(t, "doom.wad", "IWAD", lumps...)
	a := mustOpen(t, path)

	assert.Equal(t, path, a.Path())
	assert.Equal(t, IWAD, a.Header().Type())
	assert.Equal(t, int32(len(lumps)), a.Header().LumpCount)
	require.Equal(t, len(lumps), a.Len())

	for i, want := range lumps {
		lump, err := a.Lump(i)
		require.NoError(t, err)
		assert.Equal(t, want.Name, lump.Name)
		assert.Equal(t, int32(len(want.Data)), lump.Size)

		data, err := a.Data(i)
		require.NoError(t, err)
		assert.Len(t, data, int(lump.Size))
		if len(want.Data) > 0 {
			assert.Equal(t, want.Data, data)
		}
	}
}

func TestArchiveMarkerLump(t *testing.T) {
	t.Parallel()

	path := wadtest.WriteWAD(t, "markers.wad", "PWAD",
		wadtest.Lump{Name: "F_START"},
		wadtest.Lump{Name: "FLOOR0_1", Data: make([]byte, 64*64)},
		wadtest.Lump{Name: "F_END"},
	)
	a := mustOpen(t, path)

	i, ok := a.Find("F_START")
	require.True(t, ok)
	lump, err := a.Lump(i)
	require.NoError(t, err)
	assert.True(t, lump.IsMarker())

	data, err := a.Data(i)
	require.NoError(t, err)
	assert.NotNil(t, data)
	assert.Empty(t, data)

	i, ok = a.Find("FLOOR0_1")
	require.True(t, ok)
	data, err = a.Data(i)
	require.NoError(t, err)
	assert.Len(t, data, 64*64)
}

func TestArchiveFindFirstOccurrence(t *testing.T) {
	t.Parallel()

	path := wadtest.WriteWAD(t, "dupes.wad", "PWAD",
		wadtest.Lump{Name: "THINGS", Data: []byte("first")},
		wadtest.Lump{Name: "LINEDEFS", Data: []byte("lines")},
		wadtest.Lump{Name: "THINGS", Data: []byte("second")},
		wadtest.Lump{Name: "THINGS", Data: []byte("third")},
	)
	a := mustOpen(t, path)

	i, ok := a.Find("THINGS")
	require.True(t, ok)
	assert.Equal(t, 0, i)

	data, err := a.Data(i)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)

	i, ok = a.Find("LINEDEFS")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = a.Find("things")
	assert.False(t, ok, "lookup is case sensitive")

	_, ok = a.Find("SECTORS")
	assert.False(t, ok)
}

func TestArchiveLumps(t *testing.T) {
	t.Parallel()

	path := wadtest.WriteWAD(t, "iter.wad", "PWAD",
		wadtest.Lump{Name: "A", Data: []byte("a")},
		wadtest.Lump{Name: "B", Data: []byte("bb")},
		wadtest.Lump{Name: "C", Data: []byte("ccc")},
	)
	a := mustOpen(t, path)

	var names []string
	for i, lump := range a.Lumps() {
		assert.Equal(t, len(names), i)
		names = append(names, lump.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)

	var seen int
	for range a.Lumps() {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestArchiveOutOfRange(t *testing.T) {
	t.Parallel()

	path := wadtest.WriteWAD(t, "range.wad", "PWAD",
		wadtest.Lump{Name: "ONE", Data: []byte("1")},
		wadtest.Lump{Name: "TWO", Data: []byte("2")},
	)
	a := mustOpen(t, path)

	for _, index := range []int{-1, a.Len(), a.Len() + 10} {
		_, err := a.Lump(index)
		assert.ErrorIs(t, err, ErrOutOfRange, "Lump(%d)", index)

		_, err = a.Data(index)
		assert.ErrorIs(t, err, ErrOutOfRange, "Data(%d)", index)
	}
}

func TestOpenInvalidHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		count   int32
		offset  int32
		message string
	}{
		{"bad magic", "JUNK", 1, 12, "invalid id"},
		{"lowercase magic", "iwad", 1, 12, "invalid id"},
		{"zero lumps", "IWAD", 0, 12, "invalid number of lumps"},
		{"negative lumps", "PWAD", -3, 12, "invalid number of lumps"},
		{"zero directory offset", "PWAD", 1, 0, "invalid directory offset"},
		{"negative directory offset", "IWAD", 1, -12, "invalid directory offset"},
		{"id reported before count", "XWAD", 0, 0, "invalid id"},
		{"count reported before offset", "IWAD", 0, -1, "invalid number of lumps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data := wadtest.Raw(t, tt.id, tt.count, tt.offset, nil, []wadtest.Entry{
				{Position: 12, Size: 0, Name: "X"},
			})
			path := wadtest.WriteFile(t, "bad.wad", data)

			a, err := Open(path)
			require.Error(t, err)
			assert.Nil(t, a)
			assert.ErrorIs(t, err, ErrInvalidFormat)
			assert.ErrorContains(t, err, tt.message)
		})
	}
}

func TestOpenTruncatedHeader(t *testing.T) {
	t.Parallel()

	path := wadtest.WriteFile(t, "short.wad", []byte("IWAD\x01\x00"))
	a, err := Open(path)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestOpenInvalidDirectoryEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry wadtest.Entry
	}{
		{"negative position", wadtest.Entry{Position: -1, Size: 4, Name: "BADPOS"}},
		{"negative size", wadtest.Entry{Position: 12, Size: -1, Name: "BADSIZE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			payload := []byte("good")
			entries := []wadtest.Entry{
				{Position: 12, Size: 4, Name: "GOOD"},
				tt.entry,
				{Position: 12, Size: 4, Name: "LATER"},
			}
			data := wadtest.Raw(t, "PWAD", int32(len(entries)), int32(12+len(payload)), payload, entries)
			path := wadtest.WriteFile(t, "bad.wad", data)

			a, err := Open(path)
			require.Error(t, err)
			assert.Nil(t, a, "no partially parsed archive is returned")
			assert.ErrorIs(t, err, ErrInvalidFormat)

			var lumpErr *LumpError
			require.True(t, errors.As(err, &lumpErr))
			assert.Equal(t, tt.entry.Name, lumpErr.Name)
		})
	}
}

func TestOpenTruncatedDirectory(t *testing.T) {
	t.Parallel()

	// Header claims three entries, only one is present.
	data := wadtest.Raw(t, "PWAD", 3, 12, nil, []wadtest.Entry{
		{Position: 12, Size: 0, Name: "ONLY"},
	})
	path := wadtest.WriteFile(t, "truncated.wad", data)

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrShortRead)

	// Directory offset past the end of the file.
	data = wadtest.Raw(t, "PWAD", 1, 4096, nil, nil)
	path = wadtest.WriteFile(t, "faroff.wad", data)

	_, err = Open(path)
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestOpenOversizedLumpCount(t *testing.T) {
	t.Parallel()

	// A bare header claiming the maximum entry count must fail cleanly
	// instead of sizing the directory from the claim.
	data := wadtest.Raw(t, "PWAD", 0x7fffffff, 12, nil, nil)
	path := wadtest.WriteFile(t, "huge.wad", data)

	a, err := Open(path)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrShortRead)

	// One entry fewer than claimed, with payload bytes before the directory.
	data = wadtest.Raw(t, "IWAD", 2, 16, []byte("DATA"), []wadtest.Entry{
		{Position: 12, Size: 4, Name: "ONE"},
	})
	path = wadtest.WriteFile(t, "short.wad", data)

	_, err = Open(path)
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestArchiveDataShortRead(t *testing.T) {
	t.Parallel()

	payload := []byte("abcd")
	data := wadtest.Raw(t, "PWAD", 2, int32(12+len(payload)), payload, []wadtest.Entry{
		{Position: 12, Size: 4, Name: "OK"},
		{Position: 12, Size: 1000, Name: "TOOBIG"},
	})
	a := mustOpen(t, wadtest.WriteFile(t, "short.wad", data))

	got, err := a.Data(0)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	got, err = a.Data(1)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrShortRead)

	var lumpErr *LumpError
	require.True(t, errors.As(err, &lumpErr))
	assert.Equal(t, "TOOBIG", lumpErr.Name)

	// A failed read does not disturb later ones.
	got, err = a.Data(0)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestArchiveDataFreshBuffer(t *testing.T) {
	t.Parallel()

	a := mustOpen(t, wadtest.WriteWAD(t, "fresh.wad", "PWAD",
		wadtest.Lump{Name: "DATA", Data: []byte("original")},
	))

	first, err := a.Data(0)
	require.NoError(t, err)
	first[0] = 'X'

	second, err := a.Data(0)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), second)
}

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()

	a, err := Open(filepath.Join(t.TempDir(), "missing.wad"))
	assert.Nil(t, a)
	assert.ErrorIs(t, err, ErrOpen)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestArchiveClose(t *testing.T) {
	t.Parallel()

	a, err := Open(wadtest.WriteWAD(t, "close.wad", "PWAD",
		wadtest.Lump{Name: "DATA", Data: []byte("x")},
	))
	require.NoError(t, err)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close(), "second Close is a no-op")

	_, err = a.Data(0)
	assert.ErrorIs(t, err, os.ErrClosed)

	// Directory lookups still work from the parsed table.
	i, ok := a.Find("DATA")
	assert.True(t, ok)
	assert.Equal(t, 0, i)
}
