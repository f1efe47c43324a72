package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestWriteAndReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "data.json")

	require.NoError(t, WriteJSON(path, sample{Name: "JFK-LAX", Price: 250}))

	var got sample
	found, err := ReadJSON(path, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sample{Name: "JFK-LAX", Price: 250}, got)
}

func TestWriteJSON_OverwritesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	require.NoError(t, WriteJSON(path, sample{Name: "first"}))
	require.NoError(t, WriteJSON(path, sample{Name: "second"}))

	var got sample
	_, err := ReadJSON(path, &got)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should be renamed away")
}

func TestWriteJSON_UnmarshalableValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	err := WriteJSON(path, map[string]any{"bad": make(chan int)})
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestReadJSON_Missing(t *testing.T) {
	var got sample
	found, err := ReadJSON(filepath.Join(t.TempDir(), "absent.json"), &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReadJSON_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var got sample
	found, err := ReadJSON(path, &got)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, RemoveIfExists(path))

	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	require.NoError(t, RemoveIfExists(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteAtomic_FailedWriteKeepsOldContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	err := WriteAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("render failed")
	})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be removed")
}
