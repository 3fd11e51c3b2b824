package envfile

import "path/filepath"

type LineType int

const (
	LineTypeBlank LineType = iota
	LineTypeComment
	LineTypeAssign
	// LineTypeOpaque covers lines with no '=' that are neither blank nor
	// comments. They are preserved verbatim and contribute no key.
	LineTypeOpaque
)

// Line represents a single physical line of an env file. Raw holds the
// exact original text without its line terminator so edits can be spliced
// back without disturbing surrounding bytes.
type Line struct {
	Type  LineType
	Raw   string
	Key   string
	Value string

	// terminator is "\n", "\r\n", or "" for a final unterminated line.
	terminator string
}

// File holds the parsed representation of one env file.
type File struct {
	Path  string
	Name  string
	Lines []Line
	// Vars maps key to value. When a key is assigned more than once the
	// last assignment wins here; every physical line is kept in Lines.
	Vars map[string]string

	// eol is the line ending used for lines appended by patching. It is
	// the first terminator seen in the original content, "\n" otherwise.
	eol string
}

// String reassembles the original file content byte for byte.
func (f *File) String() string {
	var size int
	for _, l := range f.Lines {
		size += len(l.Raw) + len(l.terminator)
	}
	buf := make([]byte, 0, size)
	for _, l := range f.Lines {
		buf = append(buf, l.Raw...)
		buf = append(buf, l.terminator...)
	}
	return string(buf)
}

// Edit describes one staged modification to a file: set Key to *Value,
// or delete Key entirely when Value is nil.
type Edit struct {
	Key   string
	Value *string
}

func displayName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
