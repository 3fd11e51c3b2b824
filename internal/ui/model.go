package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reinhart/envdiff/internal/configuration"
	"github.com/reinhart/envdiff/internal/logger"
	"github.com/reinhart/envdiff/internal/safety"
	"github.com/reinhart/envdiff/internal/session"
	"github.com/reinhart/envdiff/internal/watcher"
)

// --- Mocha Palette & Styles ---

var (
	// Colors
	mochaText    = lipgloss.Color("#cdd6f4") // Main text
	mochaSubtext = lipgloss.Color("#a6adc8") // Dimmed text

	colorGreen  = lipgloss.Color("#a6e3a1") // identical
	colorYellow = lipgloss.Color("#f9e2af") // different
	colorRed    = lipgloss.Color("#f38ba8") // missing / conflict
	colorMauve  = lipgloss.Color("#cba6f7") // accent
	colorPeach  = lipgloss.Color("#fab387") // pending edits

	colorBorder = lipgloss.Color("#45475a")

	// Component Styles
	styleBase = lipgloss.NewStyle().Foreground(mochaText)
	styleDim  = lipgloss.NewStyle().Foreground(mochaSubtext)

	styleHeader = lipgloss.NewStyle().
			Foreground(colorMauve).
			Bold(true)

	styleIdentical = lipgloss.NewStyle().Foreground(colorGreen)
	styleDifferent = lipgloss.NewStyle().Foreground(colorYellow)
	styleMissing   = lipgloss.NewStyle().Foreground(colorRed)
	stylePending   = lipgloss.NewStyle().Foreground(colorPeach).Bold(true)

	styleCursor = lipgloss.NewStyle().
			Background(colorBorder).
			Foreground(mochaText)

	styleConflict = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	styleStatus = lipgloss.NewStyle().
			Foreground(mochaSubtext).
			Italic(true)

	styleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)

type mode int

const (
	modeBrowse mode = iota
	modeEdit
	modeAdd
	modePreview
)

// saveSuppression is how long after our own write a watcher event for the
// same path is treated as an echo rather than an external change.
const saveSuppression = time.Second

type Model struct {
	cfg       *configuration.Config
	sess      *session.Session
	watch     *watcher.Watcher
	snapshots *safety.SnapshotService

	rows   []session.DiffRow
	cursor int
	col    int
	offset int

	mode  mode
	input textinput.Model

	conflicts []session.Conflict
	status    string

	recentSaves map[string]time.Time

	// Layout
	width  int
	height int
}

func NewModel(cfg *configuration.Config, sess *session.Session, watch *watcher.Watcher, snapshots *safety.SnapshotService) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorPeach)
	ti.TextStyle = styleBase

	return Model{
		cfg:         cfg,
		sess:        sess,
		watch:       watch,
		snapshots:   snapshots,
		rows:        sess.Diff(),
		input:       ti,
		recentSaves: make(map[string]time.Time),
	}
}

func (m Model) Init() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	return listenForChanges(m.watch.Events())
}

type fileChangedMsg watcher.Event

func listenForChanges(sub <-chan watcher.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub
		if !ok {
			return nil
		}
		return fileChangedMsg(ev)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampCursor()
		return m, nil

	case fileChangedMsg:
		return m.handleFileChanged(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeEdit, modeAdd:
			return m.updateInput(msg)
		case modePreview:
			return m.updatePreview(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m Model) handleFileChanged(msg fileChangedMsg) (tea.Model, tea.Cmd) {
	relisten := listenForChanges(m.watch.Events())

	if saved, ok := m.recentSaves[msg.Path]; ok && time.Since(saved) < saveSuppression {
		logger.Debug("ignoring change echo for %q", msg.Path)
		return m, relisten
	}

	idx, stale := m.sess.Reconcile(msg.Path, msg.Content)
	if idx < 0 {
		return m, relisten
	}

	m.rows = m.sess.Diff()
	m.clampCursor()

	if len(stale) > 0 {
		m.conflicts = append(m.conflicts, stale...)
		m.status = ""
	} else {
		m.status = fmt.Sprintf("Reloaded %s", m.sess.Files()[idx].Name)
	}

	return m, relisten
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	files := m.sess.Files()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		m.cursor--
		m.clampCursor()

	case "down", "j":
		m.cursor++
		m.clampCursor()

	case "left", "h":
		if m.col > 0 {
			m.col--
		}

	case "right", "l":
		if m.col < len(files)-1 {
			m.col++
		}

	case "enter":
		if row, ok := m.currentRow(); ok {
			m.mode = modeEdit
			m.input.SetValue(m.effectiveValue(row, m.col))
			m.input.Placeholder = ""
			m.input.Focus()
			m.input.CursorEnd()
			return m, textinput.Blink
		}

	case "n":
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Placeholder = "KEY=VALUE"
		m.input.Focus()
		return m, textinput.Blink

	case "d":
		if row, ok := m.currentRow(); ok {
			m.sess.Stage(row.Key, m.col, nil)
			m.refreshAfterEdit()
		}

	case "y":
		if row, ok := m.currentRow(); ok {
			value := m.effectiveValue(row, m.col)
			if err := clipboard.WriteAll(value); err != nil {
				m.status = fmt.Sprintf("Clipboard unavailable: %v", err)
			} else {
				m.status = fmt.Sprintf("Copied value of %s", row.Key)
			}
		}

	case "r":
		if row, ok := m.currentRow(); ok {
			m.sess.Store().Remove(row.Key, m.col)
			m.refreshAfterEdit()
		}

	case "u":
		if m.sess.Store().UndoLast() {
			m.refreshAfterEdit()
			m.status = "Undid last edit"
		} else {
			m.status = "Nothing to undo"
		}

	case "U":
		if m.sess.Store().Len() > 0 {
			m.sess.Store().Clear()
			m.refreshAfterEdit()
			m.status = "Discarded all pending edits"
		} else {
			m.status = "Nothing to discard"
		}

	case "c":
		m.conflicts = nil

	case "s":
		if m.sess.Store().Len() == 0 {
			m.status = "No pending changes to save"
			break
		}
		m.mode = modePreview
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		value := m.input.Value()
		if m.mode == modeAdd {
			key, val, ok := strings.Cut(strings.TrimSpace(value), "=")
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				m.status = "New entries need the form KEY=VALUE"
			} else {
				m.sess.Stage(key, m.col, &val)
				m.refreshAfterEdit()
				m.moveCursorTo(key)
			}
		} else if row, ok := m.currentRow(); ok {
			m.sess.Stage(row.Key, m.col, &value)
			m.refreshAfterEdit()
		}
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeBrowse
	case "enter":
		m.save()
		m.mode = modeBrowse
		m.rows = m.sess.Diff()
		m.clampCursor()
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// save snapshots the touched files, writes each one's patched content
// atomically and promotes the written text to the new baseline.
func (m *Model) save() {
	files := m.sess.Files()

	var touched []int
	for i := range files {
		if len(m.sess.Store().ForFile(i)) > 0 {
			touched = append(touched, i)
		}
	}
	if len(touched) == 0 {
		m.status = "No pending changes to save"
		return
	}

	if m.snapshots != nil {
		paths := make([]string, 0, len(touched))
		for _, i := range touched {
			paths = append(paths, files[i].Path)
		}
		if id, err := m.snapshots.CreateSnapshot(paths); err != nil {
			logger.Warn("snapshot failed: %v", err)
		} else {
			logger.Info("snapshot %s created", id)
		}
	}

	count := m.sess.Store().Len()
	for _, i := range touched {
		patched := m.sess.Patched(i)
		if err := safety.WriteFileAtomic(files[i].Path, patched); err != nil {
			m.status = fmt.Sprintf("Write failed for %s: %v", files[i].Name, err)
			return
		}
		m.recentSaves[files[i].Path] = time.Now()
		m.sess.ReplaceBaseline(i, patched)
	}

	m.sess.Store().Clear()
	m.conflicts = nil
	m.status = fmt.Sprintf("Saved %d change(s) across %d file(s)", count, len(touched))
}

func (m *Model) refreshAfterEdit() {
	m.rows = m.sess.Diff()
	m.clampCursor()
	m.status = ""
}

func (m *Model) moveCursorTo(key string) {
	for i, row := range m.rows {
		if row.Key == key {
			m.cursor = i
			m.clampCursor()
			return
		}
	}
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	visible := m.tableHeight()
	if visible <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m Model) currentRow() (session.DiffRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return session.DiffRow{}, false
	}
	return m.rows[m.cursor], true
}

// effectiveValue is what the cell will hold after pending edits: the
// staged new value when one exists, the parsed file value otherwise.
func (m Model) effectiveValue(row session.DiffRow, col int) string {
	if ch := m.sess.Store().Find(row.Key, col); ch != nil {
		if ch.NewValue == nil {
			return ""
		}
		return *ch.NewValue
	}
	if col < len(row.Values) && row.Values[col] != nil {
		return *row.Values[col]
	}
	return ""
}
