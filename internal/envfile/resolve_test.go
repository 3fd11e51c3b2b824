package envfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func filesAt(paths ...string) []*File {
	fs := make([]*File, len(paths))
	for i, p := range paths {
		fs[i] = Parse(p, "")
	}
	return fs
}

func TestFindFileIndex(t *testing.T) {
	t.Parallel()

	files := filesAt("/home/me/app/config/.env", "/home/me/app/.env.prod")

	tests := []struct {
		name   string
		search string
		want   int
	}{
		{"exact match", "/home/me/app/.env.prod", 1},
		{"basename suffix", ".env.prod", 1},
		{"component suffix", "config/.env", 0},
		{"mid-segment suffix rejected", "nfig/.env", -1},
		{"backslash separators", `config\.env`, 0},
		{"full path as suffix", "/home/me/app/config/.env", 0},
		{"unknown path", "/tmp/other/.env", -1},
		{"empty search", "", -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, FindFileIndex(files, tc.search))
		})
	}
}

func TestFindFileIndexEmptySet(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -1, FindFileIndex(nil, ".env"))
}

func TestFindFileIndexFirstMatchWins(t *testing.T) {
	t.Parallel()

	files := filesAt("/a/config/.env", "/b/config/.env")
	assert.Equal(t, 0, FindFileIndex(files, "config/.env"))
}
