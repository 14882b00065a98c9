package confirm

import (
	"fmt"
	"time"

	"github.com/angelmondragon/reelhouse-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose scopes a confirmation token to exactly one lifecycle transition.
// A token minted for one purpose never satisfies a check for another.
type Purpose string

const (
	PurposeActivate    Purpose = "activate"
	PurposeChangeEmail Purpose = "change_email"
)

func (p Purpose) IsValid() bool {
	switch p {
	case PurposeActivate, PurposeChangeEmail:
		return true
	}
	return false
}

var signingMethod = jwt.SigningMethodHS256

type claims struct {
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// Mint issues a time-limited token bound to {userID, purpose}. The TTL is the
// purpose-specific value from config.
func Mint(cfg config.ConfirmConfig, now time.Time, userID uuid.UUID, purpose Purpose) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("confirm secret is required")
	}
	if userID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}
	if !purpose.IsValid() {
		return "", fmt.Errorf("invalid token purpose %q", purpose)
	}

	ttl, err := ttlFor(cfg, purpose)
	if err != nil {
		return "", err
	}

	c := claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, c).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing confirmation token: %w", err)
	}
	return signed, nil
}

// Verify reports whether the token is intact, unexpired, and bound to the
// given user and purpose. Any failure mode collapses to false; callers
// translate that into their not-found semantics.
func Verify(cfg config.ConfirmConfig, userID uuid.UUID, purpose Purpose, token string) bool {
	if cfg.Secret == "" || userID == uuid.Nil || token == "" {
		return false
	}

	parsed := &claims{}
	_, err := jwt.ParseWithClaims(
		token,
		parsed,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != signingMethod {
				return nil, fmt.Errorf("unexpected signing method %s", t.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
	)
	if err != nil {
		return false
	}
	if parsed.Purpose != purpose {
		return false
	}
	return parsed.Subject == userID.String()
}

func ttlFor(cfg config.ConfirmConfig, purpose Purpose) (time.Duration, error) {
	var ttl time.Duration
	switch purpose {
	case PurposeActivate:
		ttl = cfg.ActivateTTL
	case PurposeChangeEmail:
		ttl = cfg.EmailChangeTTL
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("token ttl for purpose %q must be positive", purpose)
	}
	return ttl, nil
}
