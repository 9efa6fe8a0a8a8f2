package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims scope a token to one interview session
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// ResumeClaims back the opaque resume token; presenting one is equivalent
// to the authenticated draft-lookup path
type ResumeClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}
