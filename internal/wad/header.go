package wad

import "fmt"

// Header is the fixed 12-byte preamble of an archive.
type Header struct {
	// ID is the raw tag, "IWAD" or "PWAD" once validated.
	ID string
	// LumpCount is the number of directory entries.
	LumpCount int32
	// DirectoryOffset is the absolute file offset of the directory.
	DirectoryOffset int32
}

// Type returns the archive type named by the header tag.
func (h Header) Type() ArchiveType {
	return ArchiveType(h.ID)
}

// readHeader reads the header at offset 0 and validates it. The checks run
// in tag, count, offset order and the first failure is returned.
func readHeader(c *cursor) (Header, error) {
	if err := c.Seek(0); err != nil {
		return Header{}, err
	}

	id, err := c.ReadString(4)
	if err != nil {
		return Header{}, fmt.Errorf("reading header id: %w", err)
	}
	count, err := c.ReadInt32()
	if err != nil {
		return Header{}, fmt.Errorf("reading lump count: %w", err)
	}
	offset, err := c.ReadInt32()
	if err != nil {
		return Header{}, fmt.Errorf("reading directory offset: %w", err)
	}

	h := Header{ID: id, LumpCount: count, DirectoryOffset: offset}
	if err := h.validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

func (h Header) validate() error {
	var errs []error
	if t := h.Type(); t != IWAD && t != PWAD {
		errs = append(errs, fmt.Errorf("%w: invalid id %q", ErrInvalidFormat, h.ID))
	}
	if h.LumpCount <= 0 {
		errs = append(errs, fmt.Errorf("%w: invalid number of lumps %d", ErrInvalidFormat, h.LumpCount))
	}
	if h.DirectoryOffset <= 0 {
		errs = append(errs, fmt.Errorf("%w: invalid directory offset %d", ErrInvalidFormat, h.DirectoryOffset))
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
