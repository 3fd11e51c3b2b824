package envfile

import "strings"

// PatchContent applies edits to the file's original text and returns the
// new content. Unaffected bytes are never changed: edited assignments are
// rewritten in place by substituting only the value portion of their raw
// text, deletions drop the whole line, and genuinely new keys are appended
// at the end of the file in edit order. Patching with no edits reproduces
// the original content exactly.
func PatchContent(f *File, edits []Edit) string {
	byKey := make(map[string]Edit, len(edits))
	for _, e := range edits {
		byKey[e.Key] = e
	}

	emitted := make(map[string]bool, len(edits))
	out := make([]Line, 0, len(f.Lines)+len(edits))

	for _, line := range f.Lines {
		if line.Type != LineTypeAssign {
			out = append(out, line)
			continue
		}
		edit, ok := byKey[line.Key]
		if !ok {
			out = append(out, line)
			continue
		}
		emitted[line.Key] = true
		if edit.Value == nil {
			// Deletion: the line vanishes, terminator included.
			continue
		}
		line.Raw = substituteValue(line.Raw, *edit.Value)
		out = append(out, line)
	}

	for _, e := range edits {
		if emitted[e.Key] || e.Value == nil {
			continue
		}
		if n := len(out); n > 0 && out[n-1].terminator == "" {
			out[n-1].terminator = f.eol
		}
		out = append(out, Line{
			Type:       LineTypeAssign,
			Raw:        formatAssignment(e.Key, *e.Value),
			Key:        e.Key,
			Value:      *e.Value,
			terminator: f.eol,
		})
	}

	patched := File{Lines: out}

	return patched.String()
}

// substituteValue replaces the value portion of an assignment's raw text,
// keeping the key, the spacing around '=', and the original quoting
// convention intact.
func substituteValue(raw, value string) string {
	idx := strings.IndexByte(raw, '=')
	if idx < 0 {
		return raw
	}
	prefix := raw[:idx+1]
	rest := raw[idx+1:]

	body := strings.TrimLeft(rest, " \t")
	lead := rest[:len(rest)-len(body)]
	trimmed := strings.TrimRight(body, " \t")
	trail := body[len(trimmed):]

	var mid string
	switch {
	case len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"':
		mid = "\"" + value + "\""
	case len(trimmed) >= 2 && trimmed[0] == '\'' && trimmed[len(trimmed)-1] == '\'':
		mid = "'" + value + "'"
	case needsQuoting(value):
		mid = "\"" + value + "\""
	default:
		mid = value
	}

	return prefix + lead + mid + trail
}
