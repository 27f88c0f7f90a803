package ports

import "context"

// SessionSnapshot is the part of the session that survives restarts.
type SessionSnapshot struct {
	Token         string
	Authenticated bool
}

// SessionRepository persists the last-known session snapshot so a
// restart can rehydrate a logged-in session without a fresh prompt.
// Load returns a zero snapshot when nothing has been persisted yet.
type SessionRepository interface {
	Load(ctx context.Context) (SessionSnapshot, error)
	Save(ctx context.Context, snapshot SessionSnapshot) error
}
