package wad

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// cursor is a seekable little-endian reader over an archive's bytes.
// Its position is shared state; callers serialize access.
type cursor struct {
	r io.ReadSeeker
}

func newCursor(r io.ReadSeeker) *cursor {
	return &cursor{r: r}
}

// Seek moves to an absolute offset. Offsets past the end are not
// rejected here; the next read reports them.
func (c *cursor) Seek(offset int64) error {
	if _, err := c.r.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking to offset %d: %w", ErrShortRead, offset, err)
	}
	return nil
}

// ReadExact reads exactly n bytes from the current position.
func (c *cursor) ReadExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return nil, fmt.Errorf("%w: reading %d bytes: %w", ErrShortRead, n, err)
	}
	return buf, nil
}

func (c *cursor) ReadInt32() (int32, error) {
	buf, err := c.ReadExact(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf)), nil
}

func (c *cursor) ReadInt16() (int16, error) {
	buf, err := c.ReadExact(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(buf)), nil
}

// ReadString reads n bytes and returns everything before the first NUL.
// Bytes after the NUL are ignored.
func (c *cursor) ReadString(n int) (string, error) {
	buf, err := c.ReadExact(n)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf), nil
}
