package session

import (
	"sort"
	"strings"

	"github.com/reinhart/envdiff/internal/envfile"
)

// Status classifies a diff row across all loaded files.
type Status int

const (
	StatusMissing Status = iota
	StatusDifferent
	StatusIdentical
)

func (s Status) String() string {
	switch s {
	case StatusMissing:
		return "missing"
	case StatusDifferent:
		return "different"
	case StatusIdentical:
		return "identical"
	}
	return "unknown"
}

// DiffRow compares one key across every loaded file. Values holds one
// slot per file in file order; a nil slot means the file lacks the key.
type DiffRow struct {
	Key    string
	Values []*string
	Status Status
}

// ComputeDiff builds one row per key present in any file's variable map.
// Rows are ordered missing < different < identical, then by key compared
// case-insensitively. Keys equal under case folding fall back to their
// case-sensitive order so output is deterministic.
func ComputeDiff(files []*envfile.File) []DiffRow {
	seen := make(map[string]struct{})
	var keys []string
	for _, f := range files {
		for k := range f.Vars {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)

	rows := make([]DiffRow, 0, len(keys))
	for _, key := range keys {
		row := DiffRow{Key: key, Values: make([]*string, len(files))}
		for i, f := range files {
			if v, ok := f.Vars[key]; ok {
				row.Values[i] = &v
			}
		}
		row.Status = classifyRow(row.Values)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Status != rows[j].Status {
			return rows[i].Status < rows[j].Status
		}
		return strings.ToLower(rows[i].Key) < strings.ToLower(rows[j].Key)
	})

	return rows
}

func classifyRow(values []*string) Status {
	var first *string
	for _, v := range values {
		if v == nil {
			return StatusMissing
		}
		if first == nil {
			first = v
		}
	}
	for _, v := range values {
		if *v != *first {
			return StatusDifferent
		}
	}
	return StatusIdentical
}
