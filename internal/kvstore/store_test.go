package kvstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	bolt, err := OpenBolt(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"bolt":   bolt,
	}
}

func TestStoreContract(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := store.Get("missing")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Set("suggestion:cats", "cats"))
			require.NoError(t, store.Set("suggestion:dogs", "dogs"))
			require.NoError(t, store.Set("suggestion:cats", "cats"))

			v, found, err := store.Get("suggestion:cats")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "cats", v)

			keys, err := store.Keys()
			require.NoError(t, err)
			assert.Equal(t, []string{"suggestion:cats", "suggestion:dogs"}, keys)

			require.NoError(t, store.Delete("suggestion:cats"))
			keys, err = store.Keys()
			require.NoError(t, err)
			assert.Equal(t, []string{"suggestion:dogs"}, keys)
		})
	}
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.db")

	first, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, first.Set("suggestion:sunset", "sunset"))
	require.NoError(t, first.Close())

	second, err := OpenBolt(path)
	require.NoError(t, err)
	defer second.Close()

	v, found, err := second.Get("suggestion:sunset")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "sunset", v)
}

func TestOpenBoltUnavailable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	// parent of the store path is a regular file
	_, err := OpenBolt(filepath.Join(blocker, "store.db"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestBoltRejectsEmptyKey(t *testing.T) {
	store, err := OpenBolt(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	defer store.Close()

	assert.Error(t, store.Set("", "value"))
}
