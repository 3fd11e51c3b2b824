package envfile

import "strings"

// formatAssignment renders a canonical KEY=VALUE line for a key that has
// no prior raw text to imitate. The value is double-quoted only when it
// is empty or contains characters unsafe for unquoted placement.
func formatAssignment(key, value string) string {
	if needsQuoting(value) {
		return key + "=\"" + value + "\""
	}
	return key + "=" + value
}

func needsQuoting(value string) bool {
	if value == "" {
		return true
	}
	return strings.ContainsAny(value, " \t#\"=")
}
