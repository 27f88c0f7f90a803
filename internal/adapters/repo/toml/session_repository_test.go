package toml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvasek/betterschedule/internal/ports"
)

func newTestRepository(t *testing.T) (*SessionRepository, string) {
	t.Helper()

	sessionPath := filepath.Join(t.TempDir(), "session.toml")
	config := viper.New()
	config.Set("session.path", sessionPath)

	repo, err := NewSessionRepository(config)
	require.NoError(t, err)

	return repo, sessionPath
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo, sessionPath := newTestRepository(t)

	want := ports.SessionSnapshot{Token: "abc.def.ghi", Authenticated: true}
	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(sessionPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(sessionFileMode), info.Mode().Perm())
}

func TestSessionRepositoryLoadWithoutFileReturnsZeroSnapshot(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ports.SessionSnapshot{}, got)
}

func TestSessionRepositorySaveOverwrites(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	require.NoError(t, repo.Save(context.Background(), ports.SessionSnapshot{Token: "old", Authenticated: true}))
	require.NoError(t, repo.Save(context.Background(), ports.SessionSnapshot{}))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ports.SessionSnapshot{}, got)
}

func TestSessionRepositoryRejectsNewerSchema(t *testing.T) {
	t.Parallel()

	repo, sessionPath := newTestRepository(t)

	require.NoError(t, os.WriteFile(sessionPath, []byte("version = 99\n"), 0o600))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported session schema version")
}

func TestSessionRepositoryRejectsCancelledContext(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRepository(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)

	err = repo.Save(ctx, ports.SessionSnapshot{Token: "abc"})
	require.ErrorIs(t, err, context.Canceled)
}
