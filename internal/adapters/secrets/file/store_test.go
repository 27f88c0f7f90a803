package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvasek/betterschedule/internal/domain"
)

func TestStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	testCases := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "empty", key: "", wantErr: "credential key is empty"},
		{name: "whitespace", key: "   ", wantErr: "credential key is empty"},
		{name: "absolute", key: "/absolute/path", wantErr: "invalid credential key"},
		{name: "traversal", key: "../escape", wantErr: "invalid credential key"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Save(context.Background(), tc.key, "value")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestStoreSaveReadRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)
	key := "username"
	want := "alice"

	err := store.Save(context.Background(), key, want)
	require.NoError(t, err)

	got, err := store.Read(context.Background(), key, "unlock")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(filepath.Join(root, key))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(secretFileMod), info.Mode().Perm())
}

func TestStoreSaveOverwrites(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(context.Background(), "password", "old"))
	require.NoError(t, store.Save(context.Background(), "password", "new"))

	got, err := store.Read(context.Background(), "password", "")
	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

func TestStoreReadMissingKeyIsNotFound(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	_, err := store.Read(context.Background(), "missing", "")
	require.ErrorIs(t, err, domain.ErrCredentialNotFound)
}

func TestStoreDeleteReportsRemoval(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	require.NoError(t, store.Save(context.Background(), "token", "abc"))

	removed, err := store.Delete(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Delete(context.Background(), "token")
	require.NoError(t, err)
	assert.False(t, removed)
}
