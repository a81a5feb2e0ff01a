package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenPayload captures the data available when minting a JWT.
type SessionTokenPayload struct {
	UserID    uuid.UUID
	Email     string
	SessionID string
}

// SessionTokenClaims represents the typed JWT issued at login. The registered
// ID (jti) is the server-side session id.
type SessionTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// SessionID returns the jti the token was minted with.
func (c *SessionTokenClaims) SessionID() string {
	if c == nil {
		return ""
	}
	return c.ID
}
