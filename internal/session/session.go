// Package session holds the state of one diff session: the loaded files,
// the staged edits, and reconciliation against external file changes.
package session

import (
	"sync"

	"github.com/reinhart/envdiff/internal/envfile"
	"github.com/reinhart/envdiff/internal/logger"
)

// Session owns the loaded files and the pending-change store. All
// mutating operations are guarded by one lock; reconciliation is
// additionally serialized per path so a slow reconcile for one file never
// interleaves with the next event for the same file.
type Session struct {
	mu    sync.Mutex
	files []*envfile.File
	store *Store

	pathMu   sync.Mutex
	pathLock map[string]*sync.Mutex
}

func New(files []*envfile.File) *Session {
	return &Session{
		files:    files,
		store:    NewStore(),
		pathLock: make(map[string]*sync.Mutex),
	}
}

// Files returns the current parsed files, in load order.
func (s *Session) Files() []*envfile.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*envfile.File, len(s.files))
	copy(out, s.files)
	return out
}

// Store returns the pending-change store. Callers must not use it
// concurrently with Reconcile; the bubbletea update loop is the single
// writer in practice.
func (s *Session) Store() *Store {
	return s.store
}

// Diff computes the cross-file diff of the current files.
func (s *Session) Diff() []DiffRow {
	return ComputeDiff(s.Files())
}

// Stage records an edit to one cell, capturing the current on-disk value
// as the change's old value on first edit.
func (s *Session) Stage(key string, fileIndex int, newValue *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fileIndex < 0 || fileIndex >= len(s.files) {
		return
	}
	var oldValue *string
	if v, ok := s.files[fileIndex].Vars[key]; ok {
		oldValue = &v
	}
	s.store.Upsert(key, fileIndex, oldValue, newValue)
}

// Patched returns the file at fileIndex patched with its pending changes.
func (s *Session) Patched(fileIndex int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return envfile.PatchContent(s.files[fileIndex], s.editsForLocked(fileIndex))
}

// ReplaceBaseline swaps in freshly written content for a file after a
// save, making it the new comparison baseline.
func (s *Session) ReplaceBaseline(fileIndex int, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fileIndex < 0 || fileIndex >= len(s.files) {
		return
	}
	s.files[fileIndex] = envfile.Parse(s.files[fileIndex].Path, content)
}

// Conflict identifies a pending change whose on-disk value moved away
// from the value it was edited against.
type Conflict struct {
	Key       string
	FileIndex int
}

// Reconcile merges externally observed content for path into the session.
// The file is re-parsed and replaces the loaded one; pending changes are
// never auto-discarded. Any pending change whose recorded old value no
// longer matches the disk value is reported as stale. Returns the file
// index (-1 when the path maps to no loaded file) and the stale set.
func (s *Session) Reconcile(path, content string) (int, []Conflict) {
	lock := s.lockForPath(path)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	idx := envfile.FindFileIndex(s.files, path)
	var filePath string
	if idx >= 0 {
		filePath = s.files[idx].Path
	}
	s.mu.Unlock()
	if idx < 0 {
		logger.Debug("reconcile: no loaded file for %q", path)
		return -1, nil
	}

	fresh := envfile.Parse(filePath, content)

	s.mu.Lock()
	defer s.mu.Unlock()

	var stale []Conflict
	for _, ch := range s.store.ForFile(idx) {
		var diskValue *string
		if v, ok := fresh.Vars[ch.Key]; ok {
			diskValue = &v
		}
		if !valuesEqual(diskValue, ch.OldValue) {
			stale = append(stale, Conflict{Key: ch.Key, FileIndex: idx})
		}
	}

	s.files[idx] = fresh
	logger.Debug("reconciled %q: %d stale change(s)", path, len(stale))

	return idx, stale
}

func (s *Session) lockForPath(path string) *sync.Mutex {
	s.pathMu.Lock()
	defer s.pathMu.Unlock()
	if l, ok := s.pathLock[path]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.pathLock[path] = l
	return l
}

func (s *Session) editsForLocked(fileIndex int) []envfile.Edit {
	var edits []envfile.Edit
	for _, ck := range s.store.history {
		if ck.fileIndex != fileIndex {
			continue
		}
		ch := s.store.changes[ck]
		edits = append(edits, envfile.Edit{Key: ch.Key, Value: ch.NewValue})
	}
	return edits
}
