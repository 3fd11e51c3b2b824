package envfile

import "strings"

// Parse turns raw file content into a File. Parsing is total: no input
// fails. Lines that fit no category degrade to opaque passthrough and
// never contribute a key.
func Parse(path, content string) *File {
	f := &File{
		Path: path,
		Name: displayName(path),
		Vars: make(map[string]string),
		eol:  "\n",
	}

	rest := content
	first := true
	for rest != "" {
		raw, term, tail := nextLine(rest)
		rest = tail

		if first && term != "" {
			f.eol = term
			first = false
		}

		line := classify(raw)
		line.terminator = term
		if line.Type == LineTypeAssign {
			f.Vars[line.Key] = line.Value
		}
		f.Lines = append(f.Lines, line)
	}

	return f
}

// nextLine splits off the first physical line of s, returning the line
// text, its terminator ("\n", "\r\n", or "" at EOF) and the remainder.
func nextLine(s string) (raw, term, rest string) {
	idx := strings.IndexByte(s, '\n')
	if idx < 0 {
		return s, "", ""
	}
	raw = s[:idx]
	term = "\n"
	if strings.HasSuffix(raw, "\r") {
		raw = raw[:len(raw)-1]
		term = "\r\n"
	}
	return raw, term, s[idx+1:]
}

func classify(raw string) Line {
	trimmed := strings.TrimSpace(raw)

	switch {
	case trimmed == "":
		return Line{Type: LineTypeBlank, Raw: raw}
	case strings.HasPrefix(trimmed, "#"):
		return Line{Type: LineTypeComment, Raw: raw}
	}

	idx := strings.IndexByte(trimmed, '=')
	if idx < 0 {
		return Line{Type: LineTypeOpaque, Raw: raw}
	}

	key := strings.TrimSpace(trimmed[:idx])
	if key == "" {
		// "=value" assigns nothing we can name; keep it opaque.
		return Line{Type: LineTypeOpaque, Raw: raw}
	}

	value := unquote(strings.TrimSpace(trimmed[idx+1:]))

	return Line{Type: LineTypeAssign, Raw: raw, Key: key, Value: value}
}

// unquote strips a single layer of matching surrounding quotes.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
