package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/reinhart/envdiff/internal/envfile"
	"github.com/reinhart/envdiff/internal/session"
)

const (
	keyColumnMax = 28
	cellPadding  = 2
)

func (m Model) View() string {
	if m.mode == modePreview {
		return m.previewView()
	}

	var b strings.Builder

	b.WriteString(m.tableView())
	b.WriteString("\n")

	if len(m.conflicts) > 0 {
		b.WriteString(styleConflict.Render(conflictBanner(m.conflicts, m.sess.Files())))
		b.WriteString("\n")
	}

	switch m.mode {
	case modeEdit:
		if row, ok := m.currentRow(); ok {
			label := fmt.Sprintf("Edit %s in %s: ", row.Key, m.fileName(m.col))
			b.WriteString(styleDim.Render(label) + m.input.View())
		}
	case modeAdd:
		b.WriteString(styleDim.Render(fmt.Sprintf("New entry in %s: ", m.fileName(m.col))) + m.input.View())
	default:
		b.WriteString(m.statusLine())
	}
	b.WriteString("\n")
	b.WriteString(styleDim.Render(helpLine(m.mode)))

	return b.String()
}

func (m Model) tableView() string {
	files := m.sess.Files()

	keyWidth := keyColumnWidth(m.rows)
	valWidth := m.valueColumnWidth(keyWidth, len(files))

	var b strings.Builder

	// Header row: key column + one column per file.
	b.WriteString(pad("KEY", keyWidth))
	for i, f := range files {
		name := f.Name
		if i == m.col {
			name = "[" + name + "]"
		}
		b.WriteString(styleHeader.Render(pad(name, valWidth)))
	}
	b.WriteString("\n")

	visible := m.tableHeight()
	end := min(m.offset+visible, len(m.rows))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.rows[i], i == m.cursor, keyWidth, valWidth))
		b.WriteString("\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(styleDim.Render("(no variables)"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderRow(row session.DiffRow, selected bool, keyWidth, valWidth int) string {
	rowStyle := statusStyle(row.Status)

	var b strings.Builder
	b.WriteString(rowStyle.Render(pad(row.Key, keyWidth)))

	for col := range row.Values {
		cell, pending := m.cellText(row, col)

		style := rowStyle
		if pending {
			style = stylePending
		}
		if selected && col == m.col {
			style = styleCursor
		}
		b.WriteString(style.Render(pad(cell, valWidth)))
	}

	return b.String()
}

// cellText renders one value slot, marking staged edits with a '*' and
// absent values with a dash.
func (m Model) cellText(row session.DiffRow, col int) (string, bool) {
	if ch := m.sess.Store().Find(row.Key, col); ch != nil {
		if ch.NewValue == nil {
			return "*(deleted)", true
		}
		return "*" + *ch.NewValue, true
	}
	if row.Values[col] == nil {
		return "—", false
	}
	return *row.Values[col], false
}

func (m Model) statusLine() string {
	if m.status != "" {
		return styleStatus.Render(" " + m.status)
	}
	pending := m.sess.Store().Len()
	if pending > 0 {
		return styleStatus.Render(fmt.Sprintf(" %d pending change(s) — press s to review and save", pending))
	}
	return styleStatus.Render(" No pending changes.")
}

func (m Model) fileName(col int) string {
	files := m.sess.Files()
	if col < 0 || col >= len(files) {
		return "?"
	}
	return files[col].Name
}

// tableHeight is the number of diff rows that fit on screen after the
// header and the footer lines.
func (m Model) tableHeight() int {
	if m.height == 0 {
		return len(m.rows) // no size info yet, render everything
	}
	h := m.height - 4 // header + status + help + spacing
	if len(m.conflicts) > 0 {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) valueColumnWidth(keyWidth, nfiles int) int {
	if nfiles == 0 {
		return 0
	}
	if m.width == 0 {
		return 24
	}
	w := (m.width - keyWidth) / nfiles
	if w < 8 {
		w = 8
	}
	return w
}

func statusStyle(s session.Status) lipgloss.Style {
	switch s {
	case session.StatusIdentical:
		return styleIdentical
	case session.StatusDifferent:
		return styleDifferent
	case session.StatusMissing:
		return styleMissing
	}
	return styleBase
}

func keyColumnWidth(rows []session.DiffRow) int {
	w := len("KEY")
	for _, r := range rows {
		if len(r.Key) > w {
			w = len(r.Key)
		}
	}
	if w > keyColumnMax {
		w = keyColumnMax
	}
	return w + cellPadding
}

// pad truncates or right-pads s to exactly width cells.
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > width-1 {
		if width > 1 {
			r = append(r[:width-2], '…')
		} else {
			r = r[:width-1]
		}
	}
	return string(r) + strings.Repeat(" ", width-len(r))
}

// conflictBanner names the cells whose on-disk value moved away from the
// value a staged edit was made against.
func conflictBanner(conflicts []session.Conflict, files []*envfile.File) string {
	parts := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		name := "?"
		if c.FileIndex >= 0 && c.FileIndex < len(files) {
			name = files[c.FileIndex].Name
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", c.Key, name))
	}
	return fmt.Sprintf(" Changed on disk since you edited: %s — press c to dismiss", strings.Join(parts, ", "))
}

func helpLine(md mode) string {
	switch md {
	case modeEdit, modeAdd:
		return " enter: stage  esc: cancel"
	case modePreview:
		return " enter: write files  esc: back"
	}
	return " ↑/↓ move  ←/→ file  enter: edit  n: new  d: delete  r: revert cell  y: yank  u: undo  U: undo all  s: save  q: quit"
}
