package utils

import "strings"

// maxLumpName is the width of the name field in a directory entry
const maxLumpName = 8

// NormalizeLumpName converts user input to the form lump names are stored
// in: upper case, at most 8 characters, no surrounding whitespace
func NormalizeLumpName(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) > maxLumpName {
		s = s[:maxLumpName]
	}
	return s
}

// LumpFileName returns a file name safe for writing a lump to disk.
// Characters that are legal in lump names but awkward in paths are replaced.
func LumpFileName(name, ext string) string {
	if name == "" {
		name = "_"
	}

	var result strings.Builder
	result.Grow(len(name) + len(ext))

	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			result.WriteByte('_')
		default:
			if r < 0x20 || r > 0x7e {
				result.WriteByte('_')
			} else {
				result.WriteRune(r)
			}
		}
	}
	result.WriteString(ext)

	return result.String()
}
