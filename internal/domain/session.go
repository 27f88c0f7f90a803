package domain

import "time"

type SessionState string

const (
	StateLoggedOut  SessionState = "logged_out"
	StateLoggedIn   SessionState = "logged_in"
	StateRefreshing SessionState = "refreshing"
	StateFailed     SessionState = "failed"
)

// Credentials are only ever held by the credential store and the token
// service; they must never appear in logs or persisted snapshots.
type Credentials struct {
	Username string
	Password string
}

// Session is the single authentication entity of a running process.
// It is mutated only by the session manager; everyone else receives
// read-only copies.
type Session struct {
	State         SessionState
	Token         string
	Authenticated bool
	// LastError carries the latest human-readable failure for display.
	// Cleared on the next successful operation.
	LastError string
}

// TokenClaims is derived from the token's payload segment on demand,
// never stored. Zero values mean the claim was absent.
type TokenClaims struct {
	FullName  string
	ExpiresAt int64
}

// ExpiresIn reports the remaining lifetime relative to now.
// A token without an exp claim reports zero.
func (c TokenClaims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == 0 {
		return 0
	}
	return time.Unix(c.ExpiresAt, 0).Sub(now)
}
