package types

import "github.com/golang-jwt/jwt/v5"

// Claims is the payload of an access token. The subject travels as "id".
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}
