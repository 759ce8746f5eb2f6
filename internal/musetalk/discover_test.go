package musetalk

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSized(t *testing.T, path string, size int, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestFindBestVideoPrefersLargerRegardlessOfAge(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	// The larger file is older; size must still win.
	writeSized(t, filepath.Join(root, "big.mp4"), 10_000, now.Add(-time.Hour))
	writeSized(t, filepath.Join(root, "small.mp4"), 5_000, now)

	best, err := findBestVideo(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "big.mp4"), best)
}

func TestFindBestVideoBreaksSizeTiesByMtime(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	writeSized(t, filepath.Join(root, "older.mp4"), 4_096, now.Add(-time.Hour))
	writeSized(t, filepath.Join(root, "newer.mp4"), 4_096, now)

	best, err := findBestVideo(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "newer.mp4"), best)
}

func TestFindBestVideoSearchesRecursivelyAndIgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	writeSized(t, filepath.Join(root, "stdout.log"), 50_000, now)
	writeSized(t, filepath.Join(root, "task", "v15", "out.mp4"), 1_000, now)

	best, err := findBestVideo(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "task", "v15", "out.mp4"), best)
}

func TestFindBestVideoEmptyDir(t *testing.T) {
	best, err := findBestVideo(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, best)
}

func TestListFilesCapsEntries(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	for _, name := range []string{"a.mp4", "b.mp4", "c.log", "d.mp4", "e.png"} {
		writeSized(t, filepath.Join(root, name), 10, now)
	}

	assert.Len(t, listFiles(root, 3, false), 3)
	assert.Len(t, listFiles(root, 200, false), 5)

	videos := listFiles(root, 200, true)
	require.Len(t, videos, 3)
	for _, p := range videos {
		assert.Equal(t, ".mp4", filepath.Ext(p))
	}
}
