package ui

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/reinhart/envdiff/internal/session"
)

func (m Model) previewView() string {
	var b strings.Builder

	b.WriteString(styleHeader.Render("Pending changes"))
	b.WriteString("\n")
	b.WriteString(summarizeChanges(m.sess.Store().All(), m.fileNames(), m.cfg.UI.MaxPreview))
	b.WriteString("\n")

	files := m.sess.Files()
	for i, f := range files {
		if len(m.sess.Store().ForFile(i)) == 0 {
			continue
		}
		diff := renderTextDiff(f.String(), m.sess.Patched(i))
		b.WriteString(styleBorder.Render(styleHeader.Render(f.Name) + "\n" + diff))
		b.WriteString("\n")
	}

	b.WriteString(styleDim.Render(helpLine(modePreview)))

	return b.String()
}

func (m Model) fileNames() []string {
	files := m.sess.Files()
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}

// summarizeChanges lists pending changes in first-edit order, truncated
// at maxItems. The store always exposes the full list; truncation is
// purely presentational.
func summarizeChanges(changes []*session.Change, fileNames []string, maxItems int) string {
	if len(changes) == 0 {
		return styleDim.Render("  (none)")
	}
	if maxItems <= 0 {
		maxItems = len(changes)
	}

	var b strings.Builder
	shown := min(maxItems, len(changes))
	for _, ch := range changes[:shown] {
		name := "?"
		if ch.FileIndex >= 0 && ch.FileIndex < len(fileNames) {
			name = fileNames[ch.FileIndex]
		}
		fmt.Fprintf(&b, "  %s  %s: %s → %s\n", name, ch.Key, describeValue(ch.OldValue), describeValue(ch.NewValue))
	}
	if rest := len(changes) - shown; rest > 0 {
		b.WriteString(styleDim.Render(fmt.Sprintf("  … and %d more", rest)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func describeValue(v *string) string {
	if v == nil {
		return "(unset)"
	}
	return fmt.Sprintf("%q", *v)
}

// renderTextDiff colorizes the line differences between the original and
// the patched content.
func renderTextDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		for _, line := range splitDiffLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				out.WriteString(styleIdentical.Render("+ " + line))
			case diffmatchpatch.DiffDelete:
				out.WriteString(styleConflict.Render("- " + line))
			default:
				out.WriteString(styleDim.Render("  " + line))
			}
			out.WriteString("\n")
		}
	}

	return strings.TrimRight(out.String(), "\n")
}

func splitDiffLines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
