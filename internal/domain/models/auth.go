package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload we accept from the identity provider.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}
