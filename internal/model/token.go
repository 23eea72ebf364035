package model

import "github.com/google/uuid"

// Identity is the public identity tuple bound into session tokens.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// TokenManager issues and verifies signed session tokens.
type TokenManager interface {
	GenerateSessionToken(identity Identity) (string, error)
	ParseSessionToken(token string) (Identity, error)
}
