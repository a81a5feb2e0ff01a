package auth

import "github.com/google/uuid"

// Principal is the authenticated caller, resolved once per request.
type Principal struct {
	UserID    uuid.UUID
	ClientID  uuid.UUID
	Email     string
	SessionID string
}
