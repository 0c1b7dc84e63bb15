package cstore

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testUUID = "9a7d6c1e-4f3b-4a2c-9d8e-1b2c3d4e5f60"

func TestFSStoreWriteReadDelete(t *testing.T) {
	store := NewFSStore(t.TempDir())

	n, err := store.Write(testUUID, strings.NewReader("content bytes"))
	require.NoError(t, err)
	require.Equal(t, int64(len("content bytes")), n)

	size, err := store.Size(testUUID)
	require.NoError(t, err)
	require.Equal(t, n, size)

	r, err := store.Read(testUUID)
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.Equal(t, "content bytes", string(b))

	require.NoError(t, store.Delete(testUUID))

	_, err = store.Size(testUUID)
	require.Error(t, err)

	_, err = store.Read(testUUID)
	require.Error(t, err)
}

func TestFSStoreContentPath(t *testing.T) {
	store := NewFSStore("/data")

	t.Run("fans out on the second uuid segment", func(t *testing.T) {
		path := store.contentPath(testUUID)
		require.Equal(t, filepath.Join("/data", "4f", "3b", testUUID), path)
	})

	t.Run("malformed id falls back to a flat path", func(t *testing.T) {
		path := store.contentPath("notauuid")
		require.Equal(t, filepath.Join("/data", "notauuid"), path)
	})
}

func TestFSStoreOverwrite(t *testing.T) {
	store := NewFSStore(t.TempDir())

	_, err := store.Write(testUUID, strings.NewReader("first"))
	require.NoError(t, err)

	n, err := store.Write(testUUID, strings.NewReader("replacement"))
	require.NoError(t, err)
	require.Equal(t, int64(len("replacement")), n)

	r, err := store.Read(testUUID)
	require.NoError(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "replacement", string(b))
}
