package types

import "github.com/golang-jwt/jwt/v5"

// Claims is the shared JWT claims structure for staff tokens.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}
