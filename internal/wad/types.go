package wad

import "fmt"

// nameSize is the width of the name field of a directory entry.
const nameSize = 8

// ArchiveType identifies the header tag of an archive.
type ArchiveType string

const (
	// IWAD is an internal (base) archive providing the game's core data.
	IWAD ArchiveType = "IWAD"
	// PWAD is a patch archive that replaces or adds lumps.
	PWAD ArchiveType = "PWAD"
)

// Lump describes one entry of an archive directory.
type Lump struct {
	// Position is the absolute byte offset of the lump's data in the file.
	Position int32
	// Size is the length of the lump's data in bytes. Zero for markers.
	Size int32
	// Name is at most 8 ASCII characters with NUL padding removed.
	Name string
}

// IsMarker reports whether the lump is a zero-size boundary marker.
func (l Lump) IsMarker() bool {
	return l.Size == 0
}

// LumpIndex locates a lump within a Manager without re-resolving its name.
type LumpIndex struct {
	Archive int
	Lump    int32
}

// Add returns the handle n entries further along in the same archive. It
// is typically used to step through the lumps that follow a marker, such
// as the map data after "E1M1". The result is checked when it is used.
func (i LumpIndex) Add(n int32) LumpIndex {
	return LumpIndex{Archive: i.Archive, Lump: i.Lump + n}
}

func (i LumpIndex) String() string {
	return fmt.Sprintf("%d:%d", i.Archive, i.Lump)
}
