package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvasek/betterschedule/internal/domain"
)

type stubStore struct {
	values    map[string]string
	saveErr   error
	readErr   error
	deleteErr error
}

func newStubStore() *stubStore {
	return &stubStore{values: map[string]string{}}
}

func (s *stubStore) Save(_ context.Context, key, value string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.values[key] = value
	return nil
}

func (s *stubStore) Read(_ context.Context, key, _ string) (string, error) {
	if s.readErr != nil {
		return "", s.readErr
	}
	value, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("credential %q: %w", key, domain.ErrCredentialNotFound)
	}
	return value, nil
}

func (s *stubStore) Delete(_ context.Context, key string) (bool, error) {
	if s.deleteErr != nil {
		return false, s.deleteErr
	}
	_, ok := s.values[key]
	delete(s.values, key)
	return ok, nil
}

func TestNewStoreRequiresBothBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStore(nil, newStubStore())
	require.Error(t, err)

	_, err = NewStore(newStubStore(), nil)
	require.Error(t, err)
}

func TestSaveFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := newStubStore()
	primary.saveErr = errors.New("pass unavailable")
	fallback := newStubStore()
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "username", "alice"))
	assert.Equal(t, "alice", fallback.values["username"])
}

func TestReadFallsBackWhenPrimaryMissesEntry(t *testing.T) {
	t.Parallel()

	primary := newStubStore()
	fallback := newStubStore()
	fallback.values["username"] = "alice"
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	value, err := store.Read(context.Background(), "username", "unlock")
	require.NoError(t, err)
	assert.Equal(t, "alice", value)
}

func TestReadDoesNotFallBackOnAuthenticationDenial(t *testing.T) {
	t.Parallel()

	primary := newStubStore()
	primary.readErr = fmt.Errorf("pass read: %w", domain.ErrAuthenticationDenied)
	fallback := newStubStore()
	fallback.values["password"] = "pw1"
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "password", "unlock")
	require.ErrorIs(t, err, domain.ErrAuthenticationDenied)
}

func TestReadMissingEverywhereIsNotFound(t *testing.T) {
	t.Parallel()

	store, err := NewStore(newStubStore(), newStubStore())
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "missing", "")
	require.ErrorIs(t, err, domain.ErrCredentialNotFound)
}

func TestDeleteWipesBothBackends(t *testing.T) {
	t.Parallel()

	primary := newStubStore()
	primary.values["token"] = "abc"
	fallback := newStubStore()
	fallback.values["token"] = "abc"
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	removed, err := store.Delete(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, primary.values)
	assert.Empty(t, fallback.values)
}

func TestDeleteReportsRemovalFromEitherBackend(t *testing.T) {
	t.Parallel()

	primary := newStubStore()
	fallback := newStubStore()
	fallback.values["token"] = "abc"
	store, err := NewStore(primary, fallback)
	require.NoError(t, err)

	removed, err := store.Delete(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, removed)
}
