package session

// Change is one staged, unsaved edit to a single cell: a key in one file.
// OldValue records the on-disk value at the time of the first edit, nil
// when the key was absent. NewValue nil stages a deletion.
type Change struct {
	Key       string
	FileIndex int
	OldValue  *string
	NewValue  *string
}

type cellKey struct {
	key       string
	fileIndex int
}

// Store is the staging area for unsaved edits. It keeps at most one
// change per (key, fileIndex) cell and an ordered undo history in
// first-edit order. Store is not safe for concurrent use; the owning
// Session serializes access.
type Store struct {
	changes map[cellKey]*Change
	history []cellKey
}

func NewStore() *Store {
	return &Store{changes: make(map[cellKey]*Change)}
}

// Upsert stages an edit. Re-editing an already-pending cell overwrites
// its NewValue but keeps the original OldValue and its history position,
// so undo order reflects first-edit order. An edit whose NewValue equals
// the recorded OldValue collapses to nothing: the entry is removed.
func (s *Store) Upsert(key string, fileIndex int, oldValue, newValue *string) {
	ck := cellKey{key, fileIndex}

	if existing, ok := s.changes[ck]; ok {
		if valuesEqual(existing.OldValue, newValue) {
			s.Remove(key, fileIndex)
			return
		}
		existing.NewValue = newValue
		return
	}

	if valuesEqual(oldValue, newValue) {
		return
	}

	s.changes[ck] = &Change{
		Key:       key,
		FileIndex: fileIndex,
		OldValue:  oldValue,
		NewValue:  newValue,
	}
	s.history = append(s.history, ck)
}

// Find returns the pending change for a cell, or nil.
func (s *Store) Find(key string, fileIndex int) *Change {
	return s.changes[cellKey{key, fileIndex}]
}

// Remove reverts a single cell. Absent cells are a no-op.
func (s *Store) Remove(key string, fileIndex int) {
	ck := cellKey{key, fileIndex}
	if _, ok := s.changes[ck]; !ok {
		return
	}
	delete(s.changes, ck)
	for i, h := range s.history {
		if h == ck {
			s.history = append(s.history[:i], s.history[i+1:]...)
			break
		}
	}
}

// UndoLast reverts the most recently first-edited cell. Reports whether
// anything was undone.
func (s *Store) UndoLast() bool {
	if len(s.history) == 0 {
		return false
	}
	ck := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	delete(s.changes, ck)
	return true
}

// Clear empties the store and its history.
func (s *Store) Clear() {
	s.changes = make(map[cellKey]*Change)
	s.history = nil
}

// Len reports the number of pending changes.
func (s *Store) Len() int {
	return len(s.changes)
}

// All returns the pending changes in history (first-edit) order.
func (s *Store) All() []*Change {
	out := make([]*Change, 0, len(s.history))
	for _, ck := range s.history {
		out = append(out, s.changes[ck])
	}
	return out
}

// ForFile returns the pending changes targeting one file, in history order.
func (s *Store) ForFile(fileIndex int) []*Change {
	var out []*Change
	for _, ck := range s.history {
		if ck.fileIndex == fileIndex {
			out = append(out, s.changes[ck])
		}
	}
	return out
}

func valuesEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
