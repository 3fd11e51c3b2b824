package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reinhart/envdiff/internal/envfile"
	"github.com/reinhart/envdiff/internal/session"
)

func strptr(s string) *string { return &s }

func TestPad(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc   ", pad("abc", 6))
	assert.Equal(t, "", pad("abc", 0))
	assert.Len(t, []rune(pad("averylongkeyname", 8)), 8)
	assert.True(t, strings.HasSuffix(pad("averylongkeyname", 8), "… "))
}

func TestKeyColumnWidth(t *testing.T) {
	t.Parallel()

	rows := []session.DiffRow{{Key: "DATABASE_URL"}, {Key: "A"}}
	assert.Equal(t, len("DATABASE_URL")+cellPadding, keyColumnWidth(rows))

	long := []session.DiffRow{{Key: strings.Repeat("K", 80)}}
	assert.Equal(t, keyColumnMax+cellPadding, keyColumnWidth(long))
}

func TestSummarizeChangesTruncates(t *testing.T) {
	t.Parallel()

	changes := []*session.Change{
		{Key: "A", FileIndex: 0, NewValue: strptr("1")},
		{Key: "B", FileIndex: 0, NewValue: strptr("2")},
		{Key: "C", FileIndex: 1, NewValue: strptr("3")},
		{Key: "D", FileIndex: 1, NewValue: nil},
		{Key: "E", FileIndex: 0, NewValue: strptr("5")},
	}
	names := []string{"a.env", "b.env"}

	out := summarizeChanges(changes, names, 3)

	assert.Contains(t, out, "A")
	assert.Contains(t, out, "C")
	assert.NotContains(t, out, "E: ")
	assert.Contains(t, out, "and 2 more")
}

func TestSummarizeChangesDeletion(t *testing.T) {
	t.Parallel()

	changes := []*session.Change{
		{Key: "GONE", FileIndex: 0, OldValue: strptr("x"), NewValue: nil},
	}

	out := summarizeChanges(changes, []string{"a.env"}, 3)
	assert.Contains(t, out, "(unset)")
	assert.Contains(t, out, `"x"`)
}

func TestSummarizeChangesEmpty(t *testing.T) {
	t.Parallel()

	out := summarizeChanges(nil, nil, 3)
	assert.Contains(t, out, "(none)")
}

func TestSplitDiffLines(t *testing.T) {
	t.Parallel()

	assert.Nil(t, splitDiffLines(""))
	assert.Nil(t, splitDiffLines("\n"))
	assert.Equal(t, []string{"A=1", "B=2"}, splitDiffLines("A=1\nB=2\n"))
}

func TestRenderTextDiffMarksChanges(t *testing.T) {
	t.Parallel()

	out := renderTextDiff("A=1\nB=2\n", "A=1\nB=3\n")

	assert.Contains(t, out, "- B=2")
	assert.Contains(t, out, "+ B=3")
	assert.Contains(t, out, "  A=1")
}

func TestConflictBanner(t *testing.T) {
	t.Parallel()

	files := []*envfile.File{
		envfile.Parse("/w/a.env", ""),
		envfile.Parse("/w/b.env", ""),
	}
	conflicts := []session.Conflict{
		{Key: "A", FileIndex: 0},
		{Key: "B", FileIndex: 1},
	}

	out := conflictBanner(conflicts, files)
	assert.Contains(t, out, "A (a.env)")
	assert.Contains(t, out, "B (b.env)")
}

func TestEffectiveValuePrefersPending(t *testing.T) {
	t.Parallel()

	sess := session.New([]*envfile.File{envfile.Parse("a.env", "A=1\n")})
	m := NewModel(nil, sess, nil, nil)

	row := m.rows[0]
	require.Equal(t, "A", row.Key)
	assert.Equal(t, "1", m.effectiveValue(row, 0))

	sess.Stage("A", 0, strptr("2"))
	assert.Equal(t, "2", m.effectiveValue(row, 0))

	sess.Stage("A", 0, nil)
	assert.Equal(t, "", m.effectiveValue(row, 0))
}
