package safety

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	work := t.TempDir()
	a := filepath.Join(work, "a", ".env")
	b := filepath.Join(work, "b", ".env")
	require.NoError(t, os.MkdirAll(filepath.Dir(a), 0755))
	require.NoError(t, os.MkdirAll(filepath.Dir(b), 0755))
	require.NoError(t, os.WriteFile(a, []byte("A=1\n"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("B=2\n"), 0644))

	svc, err := NewSnapshotService(filepath.Join(work, "backups"))
	require.NoError(t, err)

	id, err := svc.CreateSnapshot([]string{a, b})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// Clobber both files, then restore. Same basename in both dirs
	// exercises the collision-safe entry naming.
	require.NoError(t, os.WriteFile(a, []byte("A=broken\n"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("B=broken\n"), 0644))

	require.NoError(t, svc.Restore(id))

	gotA, err := os.ReadFile(a)
	require.NoError(t, err)
	gotB, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, "A=1\n", string(gotA))
	assert.Equal(t, "B=2\n", string(gotB))
}

func TestRestoreUnknownSnapshot(t *testing.T) {
	svc, err := NewSnapshotService(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, svc.Restore("19700101-000000"))
}

func TestCreateSnapshotMissingSource(t *testing.T) {
	svc, err := NewSnapshotService(t.TempDir())
	require.NoError(t, err)

	_, err = svc.CreateSnapshot([]string{filepath.Join(t.TempDir(), "ghost.env")})
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	require.NoError(t, WriteFileAtomic(path, "A=1\nB=2\n"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A=1\nB=2\n", string(got))

	// No temp droppings left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
