package wad

import (
	"fmt"
	"iter"
)

// directory is the parsed lump table of one archive.
type directory struct {
	lumps []Lump
	// first maps a name to the index of its first on-disk occurrence.
	first map[string]int
}

// entrySize is the on-disk width of one directory entry.
const entrySize = 16

// readDirectory reads the lump table of a file of the given size. The
// entry count is checked against the bytes available after the directory
// offset before anything is allocated for it.
func readDirectory(c *cursor, h Header, size int64) (*directory, error) {
	if avail := size - int64(h.DirectoryOffset); avail < int64(h.LumpCount)*entrySize {
		return nil, fmt.Errorf("%w: directory of %d entries at offset %d exceeds file size %d",
			ErrShortRead, h.LumpCount, h.DirectoryOffset, size)
	}

	if err := c.Seek(int64(h.DirectoryOffset)); err != nil {
		return nil, fmt.Errorf("seeking to directory: %w", err)
	}

	d := &directory{
		lumps: make([]Lump, 0, h.LumpCount),
		first: make(map[string]int, h.LumpCount),
	}
	for i := 0; i < int(h.LumpCount); i++ {
		lump, err := readLump(c)
		if err != nil {
			return nil, fmt.Errorf("reading directory entry %d: %w", i, err)
		}
		d.lumps = append(d.lumps, lump)
		if _, exists := d.first[lump.Name]; !exists {
			d.first[lump.Name] = i
		}
	}
	return d, nil
}

func readLump(c *cursor) (Lump, error) {
	position, err := c.ReadInt32()
	if err != nil {
		return Lump{}, err
	}
	size, err := c.ReadInt32()
	if err != nil {
		return Lump{}, err
	}
	name, err := c.ReadString(nameSize)
	if err != nil {
		return Lump{}, err
	}

	if position < 0 {
		return Lump{}, &LumpError{Op: "parse", Name: name, Err: fmt.Errorf("%w: invalid data offset %d", ErrInvalidFormat, position)}
	}
	if size < 0 {
		return Lump{}, &LumpError{Op: "parse", Name: name, Err: fmt.Errorf("%w: invalid size %d", ErrInvalidFormat, size)}
	}
	return Lump{Position: position, Size: size, Name: name}, nil
}

func (d *directory) Len() int {
	return len(d.lumps)
}

func (d *directory) Find(name string) (int, bool) {
	i, ok := d.first[name]
	return i, ok
}

func (d *directory) Lump(index int) (Lump, error) {
	if index < 0 || index >= len(d.lumps) {
		return Lump{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(d.lumps))
	}
	return d.lumps[index], nil
}

func (d *directory) All() iter.Seq2[int, Lump] {
	return func(yield func(int, Lump) bool) {
		for i, l := range d.lumps {
			if !yield(i, l) {
				return
			}
		}
	}
}
