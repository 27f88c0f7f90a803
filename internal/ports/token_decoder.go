package ports

import "github.com/kvasek/betterschedule/internal/domain"

// TokenDecoder extracts claims from a bearer token without verifying
// its signature. Fails with domain.ErrTokenDecode on anything that is
// not three dot-separated base64url segments of JSON.
type TokenDecoder interface {
	Decode(token string) (domain.TokenClaims, error)
}
