package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/kvasek/betterschedule/internal/adapters/secrets/file"
	passstore "github.com/kvasek/betterschedule/internal/adapters/secrets/pass"
	"github.com/kvasek/betterschedule/internal/domain"
	"github.com/kvasek/betterschedule/internal/ports"
)

// Store chains two credential backends: an interactive primary and a
// plain fallback. A user who refuses the primary's unlock prompt has
// denied access; the fallback is not consulted in that case.
type Store struct {
	primary  ports.CredentialStore
	fallback ports.CredentialStore
}

var _ ports.CredentialStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary credential store is nil")
	errNilFallbackStore = errors.New("fallback credential store is nil")
)

func NewStore(primary ports.CredentialStore, fallback ports.CredentialStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

func NewPassFirstWithFileFallback(fileRoot string) (*Store, error) {
	return NewStore(passstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Save(ctx context.Context, key string, value string) error {
	err := s.primary.Save(ctx, key, value)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Save(ctx, key, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend save failed: %w; fallback backend save failed: %w", err, fallbackErr)
}

func (s *Store) Read(ctx context.Context, key string, prompt string) (string, error) {
	value, err := s.primary.Read(ctx, key, prompt)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackValue, fallbackErr := s.fallback.Read(ctx, key, prompt)
	if fallbackErr == nil {
		return fallbackValue, nil
	}
	if errors.Is(err, domain.ErrCredentialNotFound) && errors.Is(fallbackErr, domain.ErrCredentialNotFound) {
		return "", fmt.Errorf("credential %q: %w", key, domain.ErrCredentialNotFound)
	}

	return "", fmt.Errorf("primary backend read failed: %w; fallback backend read failed: %w", err, fallbackErr)
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	// A wipe must reach both backends; an entry surviving in either one
	// would still be readable.
	primaryRemoved, primaryErr := s.primary.Delete(ctx, key)
	if primaryErr != nil && shouldSkipFallback(primaryErr) {
		return false, primaryErr
	}

	fallbackRemoved, fallbackErr := s.fallback.Delete(ctx, key)
	if primaryErr != nil && fallbackErr != nil {
		return false, fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", primaryErr, fallbackErr)
	}

	return primaryRemoved || fallbackRemoved, nil
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, domain.ErrAuthenticationDenied)
}
