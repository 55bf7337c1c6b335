package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the identity carried by an access token.
type JWTClaims struct {
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}
