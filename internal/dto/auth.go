package dto

import "github.com/golang-jwt/jwt/v5"

// IdentityClaims are the claims of a bearer token issued by the identity provider.
// The subject is the user ID.
type IdentityClaims struct {
	jwt.RegisteredClaims
}

func (c *IdentityClaims) UserID() string {
	return c.Subject
}
