package envfile

import "strings"

// FindFileIndex maps a filesystem path, possibly relative or reported by a
// watcher with different separators, back to a loaded file. Exact matches
// win; otherwise the first file whose normalized path ends with the
// normalized search path at a component boundary is returned. Returns -1
// when nothing qualifies.
func FindFileIndex(files []*File, searchPath string) int {
	for i, f := range files {
		if f.Path == searchPath {
			return i
		}
	}

	want := normalizeSeparators(searchPath)
	if want == "" {
		return -1
	}
	for i, f := range files {
		have := normalizeSeparators(f.Path)
		if !strings.HasSuffix(have, want) {
			continue
		}
		// Component-aligned: the suffix must start at the beginning of
		// the path or right after a separator.
		if len(have) == len(want) || have[len(have)-len(want)-1] == '/' {
			return i
		}
	}

	return -1
}

func normalizeSeparators(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
