package ports

import "context"

// TokenService performs the login exchange against the school API.
// RefreshWithStoredCredentials re-runs the login with the persisted
// username/password pair and fails with domain.ErrNoStoredCredentials,
// without any network call, when nothing is stored.
type TokenService interface {
	Login(ctx context.Context, username string, password string) (string, error)
	RefreshWithStoredCredentials(ctx context.Context) (string, error)
}
