package types

import "github.com/golang-jwt/jwt/v5"

// TokenClaims represents the claims in a JWT token issued by the catalog auth service
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   ID     `json:"user_id"`
	Username string `json:"username,omitempty"`
}
