package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatcherEmitsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, path, "A=1\n")

	w, err := New([]string{path}, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	writeFile(t, path, "A=2\n")

	select {
	case ev := <-w.Events():
		assert.Equal(t, path, ev.Path)
		assert.Equal(t, "A=2\n", ev.Content)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, path, "A=0\n")

	w, err := New([]string{path}, 200*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	// A rapid burst of writes inside one debounce window.
	for i := range 5 {
		writeFile(t, path, "A="+string(rune('1'+i))+"\n")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case ev := <-w.Events():
		assert.Equal(t, "A=5\n", ev.Content, "event carries the settled content")
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}

	// No second event follows for the same burst.
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected extra event: %+v", ev)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, ".env")
	other := filepath.Join(dir, "notes.txt")
	writeFile(t, watched, "A=1\n")

	w, err := New([]string{watched}, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	writeFile(t, other, "irrelevant")

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event for %q", ev.Path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherSeesAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, path, "A=1\n")

	w, err := New([]string{path}, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	tmp := filepath.Join(dir, ".env.tmp")
	writeFile(t, tmp, "A=2\n")
	require.NoError(t, os.Rename(tmp, path))

	select {
	case ev := <-w.Events():
		assert.Equal(t, "A=2\n", ev.Content)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}
}

func TestWatcherCloseStopsEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	writeFile(t, path, "A=1\n")

	w, err := New([]string{path}, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, open := <-w.Events()
	assert.False(t, open, "events channel closes on Close")
}
