package storage

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save("RC_Table_Editor/P1/L1/book.xlsx", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "RC_Table_Editor/P1/L1/book.xlsx", rel)

	data, err := store.Read(rel)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), data)

	require.NoError(t, store.Delete(rel))
	_, err = store.Read(rel)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	require.NoError(t, store.Delete(rel))
}

func TestLocalStorageContainsTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	rel, err := store.Save("../../escape.txt", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "escape.txt", rel)

	_, err = store.Save("", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidPath)
}
