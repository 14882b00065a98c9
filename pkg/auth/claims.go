package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    uuid.UUID
	ProfileID *uuid.UUID
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients. ProfileID is
// present for every activated account; it is the ownership handle the movie
// endpoints authorize against.
type AccessTokenClaims struct {
	UserID    uuid.UUID  `json:"user_id"`
	ProfileID *uuid.UUID `json:"profile_id,omitempty"`
	jwt.RegisteredClaims
}
