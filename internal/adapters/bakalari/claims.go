package bakalari

import (
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/kvasek/betterschedule/internal/domain"
	"github.com/kvasek/betterschedule/internal/ports"
)

const fullNameClaim = "Bakalari.PersonFullName"

// ClaimsDecoder reads the payload segment of a school API token without
// verifying its signature; the server alone vouches for the token, the
// client only needs the expiry and display name out of it.
type ClaimsDecoder struct{}

var _ ports.TokenDecoder = ClaimsDecoder{}

func (ClaimsDecoder) Decode(token string) (domain.TokenClaims, error) {
	parser := jwt.NewParser()

	mapClaims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, mapClaims); err != nil {
		return domain.TokenClaims{}, fmt.Errorf("%w: %w", domain.ErrTokenDecode, err)
	}

	claims := domain.TokenClaims{}
	if name, ok := mapClaims[fullNameClaim].(string); ok {
		claims.FullName = name
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Unix()
	}

	return claims, nil
}
