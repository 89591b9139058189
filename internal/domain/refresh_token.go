package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

const minTokenLength = 32

// HashToken returns the SHA-256 hex digest of a token. Refresh tokens are
// only ever stored and compared in this form.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// RefreshTokenState is the persisted shape of a RefreshToken.
type RefreshTokenState struct {
	ID                  uint
	UserID              uint
	TokenHash           string
	ExpiresAt           time.Time
	CreatedAt           time.Time
	CreatedByIP         string
	RevokedAt           *time.Time
	RevokedByIP         string
	ReplacedByTokenHash string
}

// RefreshToken is one link in a rotation chain. Once revoked it stays
// revoked; ReplacedByTokenHash points at its successor when it was rotated.
type RefreshToken struct {
	s RefreshTokenState
}

// NewRefreshToken validates the raw token and its expiry, then keeps only
// the digest.
func NewRefreshToken(userID uint, token string, expiresAt, now time.Time, createdByIP string) (*RefreshToken, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrTokenEmpty
	}
	if len(token) < minTokenLength {
		return nil, ErrTokenTooShort
	}
	if !expiresAt.After(now) {
		return nil, ErrInvalidExpiration
	}
	return &RefreshToken{s: RefreshTokenState{
		UserID:      userID,
		TokenHash:   HashToken(token),
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
		CreatedByIP: createdByIP,
	}}, nil
}

// RestoreRefreshToken rebuilds a persisted token.
func RestoreRefreshToken(s RefreshTokenState) *RefreshToken {
	return &RefreshToken{s: s}
}

// IsExpired is true from the expiry instant onwards.
func (t *RefreshToken) IsExpired(now time.Time) bool { return !now.Before(t.s.ExpiresAt) }

// IsRevoked is true once Revoke has succeeded.
func (t *RefreshToken) IsRevoked() bool { return t.s.RevokedAt != nil }

// IsActive is neither expired nor revoked.
func (t *RefreshToken) IsActive(now time.Time) bool { return !t.IsRevoked() && !t.IsExpired(now) }

// IsExpiringSoon reports whether the token expires within threshold.
func (t *RefreshToken) IsExpiringSoon(now time.Time, threshold time.Duration) bool {
	return !t.IsExpired(now) && t.s.ExpiresAt.Sub(now) <= threshold
}

// WasRotated reports whether the token was revoked in favour of a successor.
func (t *RefreshToken) WasRotated() bool {
	return t.IsRevoked() && t.s.ReplacedByTokenHash != ""
}

// ValidateForRefresh checks expiry before revocation.
func (t *RefreshToken) ValidateForRefresh(now time.Time) error {
	if t.IsExpired(now) {
		return ErrTokenExpired
	}
	if t.IsRevoked() {
		return ErrTokenRevoked
	}
	return nil
}

// Revoke marks the token revoked. replacedByToken is the raw successor, or
// empty when the token is revoked without rotation.
func (t *RefreshToken) Revoke(now time.Time, revokedByIP, replacedByToken string) error {
	if t.IsRevoked() {
		return ErrAlreadyRevoked
	}
	at := now
	t.s.RevokedAt = &at
	t.s.RevokedByIP = revokedByIP
	if replacedByToken != "" {
		t.s.ReplacedByTokenHash = HashToken(replacedByToken)
	}
	return nil
}

// State returns a copy of the token's fields.
func (t *RefreshToken) State() RefreshTokenState {
	s := t.s
	if s.RevokedAt != nil {
		r := *s.RevokedAt
		s.RevokedAt = &r
	}
	return s
}

func (t *RefreshToken) ID() uint { return t.s.ID }
func (t *RefreshToken) UserID() uint { return t.s.UserID }
func (t *RefreshToken) TokenHash() string { return t.s.TokenHash }
func (t *RefreshToken) ExpiresAt() time.Time { return t.s.ExpiresAt }
