package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorageRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	fs, err := NewFileStorage(dir)
	require.NoError(t, err)

	var n int
	ok, err := fs.Get("pageSize", &n)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, fs.Set("pageSize", 25))
	ok, err = fs.Get("pageSize", &n)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 25, n)

	data, err := os.ReadFile(filepath.Join(dir, "pageSize.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "25\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStorageOverwrite(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Set("jokesNumber", 10))
	require.NoError(t, fs.Set("jokesNumber", 3))

	var n int
	_, err = fs.Get("jokesNumber", &n)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestFileStorageRejectsBadKeys(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, fs.Set(key, 1), key)
	}
}

func TestFileStorageCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pageSize.yaml"), []byte("[not an int"), 0o600))

	var n int
	_, err = fs.Get("pageSize", &n)
	assert.Error(t, err)

	got, err := Int(fs, "pageSize", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, got)

	_, err = fs.Get("pageSize", &n)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestIntSeedsDefault(t *testing.T) {
	m := NewMemoryStorage()

	got, err := Int(m, "jokesNumber", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, got)

	require.NoError(t, m.Set("jokesNumber", 4))
	got, err = Int(m, "jokesNumber", 10)
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}

func TestNewFileStorageRequiresDir(t *testing.T) {
	_, err := NewFileStorage("")
	assert.Error(t, err)
}
