package ports

import "context"

// CredentialStore is authenticated-read storage for small secret strings
// (username, password, token). Save overwrites idempotently. Read may
// block on a user-presence check; a denied unlock surfaces as
// domain.ErrAuthenticationDenied, a missing entry as
// domain.ErrCredentialNotFound. Delete reports whether anything was
// removed. Concurrent writers to the same key serialize last-write-wins.
type CredentialStore interface {
	Save(ctx context.Context, key string, value string) error
	Read(ctx context.Context, key string, prompt string) (string, error)
	Delete(ctx context.Context, key string) (bool, error)
}
