package safety

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type SnapshotService struct {
	BackupDir string
}

func NewSnapshotService(backupDir string) (*SnapshotService, error) {
	if backupDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		backupDir = filepath.Join(home, ".local", "share", "envdiff", "backups")
	}
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return nil, err
	}
	return &SnapshotService{BackupDir: backupDir}, nil
}

// CreateSnapshot backs up the given files before a save overwrites them.
// Entries are numbered to avoid basename collisions and a manifest records
// the original absolute path of each entry.
func (s *SnapshotService) CreateSnapshot(files []string) (string, error) {
	id := time.Now().Format("20060102-150405")
	snapshotDir := filepath.Join(s.BackupDir, id)
	if err := os.MkdirAll(snapshotDir, 0755); err != nil {
		return "", err
	}

	var manifest strings.Builder
	for i, src := range files {
		abs, err := filepath.Abs(src)
		if err != nil {
			abs = src
		}
		entry := fmt.Sprintf("%02d-%s", i, filepath.Base(src))
		if err := copyFile(src, filepath.Join(snapshotDir, entry)); err != nil {
			return "", fmt.Errorf("failed to copy %s: %w", src, err)
		}
		fmt.Fprintf(&manifest, "%s\t%s\n", entry, abs)
	}

	manifestPath := filepath.Join(snapshotDir, "manifest")
	if err := os.WriteFile(manifestPath, []byte(manifest.String()), 0644); err != nil {
		return "", err
	}

	return id, nil
}

// Restore copies every file recorded in the snapshot's manifest back to
// its original location.
func (s *SnapshotService) Restore(id string) error {
	snapshotDir := filepath.Join(s.BackupDir, id)
	data, err := os.ReadFile(filepath.Join(snapshotDir, "manifest"))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("snapshot %s not found", id)
		}
		return err
	}

	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		entry, target, ok := strings.Cut(line, "\t")
		if !ok {
			return fmt.Errorf("snapshot %s has a malformed manifest", id)
		}
		if err := copyFile(filepath.Join(snapshotDir, entry), target); err != nil {
			return fmt.Errorf("failed to restore %s: %w", target, err)
		}
	}

	return nil
}

// WriteFileAtomic writes content to path via a temp file in the same
// directory followed by a rename, so watchers and readers never observe a
// half-written file.
func WriteFileAtomic(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	return err
}
