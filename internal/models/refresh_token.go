package models

import (
	"time"

	"budgettracker/internal/domain"
)

// RefreshToken stores the SHA-256 digest of an issued refresh token.
type RefreshToken struct {
	Base
	UserID              uint       `gorm:"not null;index"`
	TokenHash           string     `gorm:"size:64;not null;uniqueIndex"`
	ExpiresAt           time.Time  `gorm:"not null"`
	CreatedByIP         string     `gorm:"size:45"`
	RevokedAt           *time.Time `gorm:"index"`
	RevokedByIP         string     `gorm:"size:45"`
	ReplacedByTokenHash string     `gorm:"size:64"`
}

// ToDomain rebuilds the guarded entity from the row.
func (r *RefreshToken) ToDomain() *domain.RefreshToken {
	return domain.RestoreRefreshToken(domain.RefreshTokenState{
		ID:                  r.ID,
		UserID:              r.UserID,
		TokenHash:           r.TokenHash,
		ExpiresAt:           r.ExpiresAt,
		CreatedAt:           r.CreatedAt,
		CreatedByIP:         r.CreatedByIP,
		RevokedAt:           r.RevokedAt,
		RevokedByIP:         r.RevokedByIP,
		ReplacedByTokenHash: r.ReplacedByTokenHash,
	})
}

// RefreshTokenFromDomain builds a row from the entity.
func RefreshTokenFromDomain(d *domain.RefreshToken) *RefreshToken {
	s := d.State()
	return &RefreshToken{
		Base:                Base{ID: s.ID, CreatedAt: s.CreatedAt},
		UserID:              s.UserID,
		TokenHash:           s.TokenHash,
		ExpiresAt:           s.ExpiresAt,
		CreatedByIP:         s.CreatedByIP,
		RevokedAt:           s.RevokedAt,
		RevokedByIP:         s.RevokedByIP,
		ReplacedByTokenHash: s.ReplacedByTokenHash,
	}
}
