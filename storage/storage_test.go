package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doc.json")

	require.NoError(t, WriteJSON(path, doc{Name: "Pine Hill", Price: 60}))

	var got doc
	require.NoError(t, ReadJSON(path, &got))
	assert.Equal(t, doc{Name: "Pine Hill", Price: 60}, got)
}

func TestReadMissingFileReturnsNotExist(t *testing.T) {
	var got doc
	err := ReadJSON(filepath.Join(t.TempDir(), "absent.json"), &got)
	assert.True(t, os.IsNotExist(err))
	assert.Zero(t, got)
}

func TestWriteReplacesWholeDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, WriteJSON(path, map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, WriteJSON(path, map[string]string{"a": "1"}))

	var got map[string]string
	require.NoError(t, ReadJSON(path, &got))
	assert.Equal(t, map[string]string{"a": "1"}, got)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, WriteJSON(path, doc{Name: "x"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc.json", entries[0].Name())
}

func TestExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	assert.False(t, Exists(path))
	require.NoError(t, WriteJSON(path, doc{}))
	assert.True(t, Exists(path))
}
