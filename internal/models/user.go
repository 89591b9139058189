package models

import (
	"time"

	"budgettracker/internal/domain"
)

// User represents the user model in the database
type User struct {
	Base
	Username      string         `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email         string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password      string         `gorm:"not null" json:"-"`
	Role          string         `gorm:"size:20;not null" json:"role"`
	IsActive      bool           `gorm:"not null" json:"is_active"`
	LastLoginAt   *time.Time     `json:"last_login_at,omitempty"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Transactions  []Transaction  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// ToDomain rebuilds the guarded entity from the row.
func (u *User) ToDomain() *domain.User {
	return domain.RestoreUser(domain.UserState{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.Password,
		Role:         domain.Role(u.Role),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		LastLoginAt:  u.LastLoginAt,
	})
}

// UserFromDomain builds a row from the entity.
func UserFromDomain(d *domain.User) *User {
	s := d.State()
	return &User{
		Base:        Base{ID: s.ID, CreatedAt: s.CreatedAt},
		Username:    s.Username,
		Email:       s.Email,
		Password:    s.PasswordHash,
		Role:        string(s.Role),
		IsActive:    s.IsActive,
		LastLoginAt: s.LastLoginAt,
	}
}
