// Package watcher emits debounced change events for a fixed set of files.
// Bursts of filesystem notifications for the same path are coalesced into
// a single event per debounce window so consumers never reconcile against
// a partially-written file.
package watcher

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/reinhart/envdiff/internal/logger"
)

// DefaultDebounce is the window during which repeated notifications for
// one path collapse into a single event.
const DefaultDebounce = 150 * time.Millisecond

// Event reports that a watched file settled at new content.
type Event struct {
	Path    string
	Content string
}

type Watcher struct {
	fsw     *fsnotify.Watcher
	watched map[string]bool
	window  time.Duration
	events  chan Event
	done    chan struct{}
}

// New watches the given files. The parent directories are registered with
// fsnotify so atomic replaces (write temp file, rename over target) are
// still observed. A window <= 0 falls back to DefaultDebounce.
func New(paths []string, window time.Duration) (*Watcher, error) {
	if window <= 0 {
		window = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		watched: make(map[string]bool, len(paths)),
		window:  window,
		events:  make(chan Event, 16),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		w.watched[filepath.Clean(abs)] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	go w.loop()

	return w, nil
}

// Events delivers at most one event per debounce window per path, in
// order per path. The channel closes when the watcher is closed.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	defer close(w.events)

	// Collect dirty paths and flush them once the burst goes quiet.
	timer := time.NewTimer(w.window)
	timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			path := filepath.Clean(ev.Name)
			if !w.watched[path] {
				continue
			}
			pending[path] = true
			timer.Reset(w.window)

		case <-timer.C:
			for path := range pending {
				w.emit(path)
			}
			pending = make(map[string]bool)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Debug("watcher error: %v", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) emit(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("watcher: read %q: %v", path, err)
		return
	}
	select {
	case w.events <- Event{Path: path, Content: string(content)}:
	case <-w.done:
	}
}
