package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/ciap"
	"github.com/fwojciec/ciap/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStore_WriteEntries(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories and writes indented JSON", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "assets", "ciap", "ciap.json")
		store := fs.NewArtifactStore(path)

		info, err := store.WriteEntries(context.Background(), []ciap.Entry{
			{Code: "A01", Title: "Dor generalizada/múltipla", Chapter: "A"},
		})

		require.NoError(t, err)
		assert.Equal(t, path, info.Path)
		assert.Equal(t, 1, info.Count)
		assert.Len(t, info.Fingerprint, 16)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `[
  {
    "codigo": "A01",
    "titulo": "Dor generalizada/múltipla",
    "capitulo": "A"
  }
]
`, string(data))
	})

	t.Run("overwrites an existing artifact", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "ciap.json")
		store := fs.NewArtifactStore(path)
		ctx := context.Background()

		_, err := store.WriteEntries(ctx, []ciap.Entry{{Code: "A01", Title: "old", Chapter: "A"}})
		require.NoError(t, err)
		_, err = store.WriteEntries(ctx, []ciap.Entry{{Code: "K86", Title: "new", Chapter: "K"}})
		require.NoError(t, err)

		entries, _, err := store.ReadEntries(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "K86", entries[0].Code)

		files, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, files, 1, "temporary files should be cleaned up")
	})

	t.Run("writes an empty array for no entries", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "ciap.json")
		store := fs.NewArtifactStore(path)

		_, err := store.WriteEntries(context.Background(), nil)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))
	})

	t.Run("fails when the directory cannot be created", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		store := fs.NewArtifactStore(filepath.Join(blocker, "ciap.json"))
		_, err := store.WriteEntries(context.Background(), []ciap.Entry{})

		require.Error(t, err)
	})
}

func TestArtifactStore_ReadEntries(t *testing.T) {
	t.Parallel()

	t.Run("round-trips written entries with the same fingerprint", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "ciap.json")
		store := fs.NewArtifactStore(path)
		ctx := context.Background()
		want := []ciap.Entry{
			{Code: "A01", Title: "Dor generalizada/múltipla", Chapter: "A"},
			{Code: "K86", Title: "Hipertensão sem complicações", Chapter: "K"},
		}

		written, err := store.WriteEntries(ctx, want)
		require.NoError(t, err)

		got, info, err := store.ReadEntries(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, written.Fingerprint, info.Fingerprint)
		assert.Equal(t, 2, info.Count)
	})

	t.Run("returns ENOTFOUND for a missing artifact", func(t *testing.T) {
		t.Parallel()

		store := fs.NewArtifactStore(filepath.Join(t.TempDir(), "missing.json"))

		_, _, err := store.ReadEntries(context.Background())

		require.Error(t, err)
		assert.Equal(t, ciap.ENOTFOUND, ciap.ErrorCode(err))
	})

	t.Run("returns EINVALID for malformed JSON", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "ciap.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"codigo": "A01",`), 0644))

		_, _, err := fs.NewArtifactStore(path).ReadEntries(context.Background())

		require.Error(t, err)
		assert.Equal(t, ciap.EINVALID, ciap.ErrorCode(err))
	})

	t.Run("returns EINVALID when the document is not an array", func(t *testing.T) {
		t.Parallel()

		for _, doc := range []string{`{"codigo": "A01"}`, `null`, `"A01"`} {
			path := filepath.Join(t.TempDir(), "ciap.json")
			require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

			_, _, err := fs.NewArtifactStore(path).ReadEntries(context.Background())

			require.Error(t, err, doc)
			assert.Equal(t, ciap.EINVALID, ciap.ErrorCode(err), doc)
		}
	})
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := fs.Fingerprint([]byte(`[]`))
	b := fs.Fingerprint([]byte(`[ ]`))

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, fs.Fingerprint([]byte(`[]`)))
}
