package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Role is a user's authorization level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const maxUsernameLength = 50

// UserState is the persisted shape of a User.
type UserState struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// User is an account holder. Passwords arrive already hashed.
type User struct {
	s UserState
}

func validateEmail(email string) (string, error) {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" || !strings.Contains(e, "@") {
		return "", ErrInvalidEmail
	}
	return e, nil
}

// NewUser creates an active user with the default role.
func NewUser(username, email, passwordHash string, now time.Time) (*User, error) {
	name := strings.TrimSpace(username)
	if name == "" || utf8.RuneCountInString(name) > maxUsernameLength {
		return nil, ErrInvalidUsername
	}
	e, err := validateEmail(email)
	if err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, ErrInvalidPasswordHash
	}
	return &User{s: UserState{
		Username:     name,
		Email:        e,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		IsActive:     true,
		CreatedAt:    now,
	}}, nil
}

// RestoreUser rebuilds a persisted user.
func RestoreUser(s UserState) *User {
	return &User{s: s}
}

// ChangePassword replaces the stored hash.
func (u *User) ChangePassword(passwordHash string) error {
	if passwordHash == "" {
		return ErrInvalidPasswordHash
	}
	u.s.PasswordHash = passwordHash
	return nil
}

// UpdateEmail replaces the email address.
func (u *User) UpdateEmail(email string) error {
	e, err := validateEmail(email)
	if err != nil {
		return err
	}
	u.s.Email = e
	return nil
}

// RecordLogin stamps the last successful login.
func (u *User) RecordLogin(now time.Time) {
	at := now
	u.s.LastLoginAt = &at
}

func (u *User) Deactivate() { u.s.IsActive = false }
func (u *User) Activate() { u.s.IsActive = true }

// State returns a copy of the user's fields.
func (u *User) State() UserState {
	s := u.s
	if s.LastLoginAt != nil {
		l := *s.LastLoginAt
		s.LastLoginAt = &l
	}
	return s
}

func (u *User) ID() uint { return u.s.ID }
func (u *User) Username() string { return u.s.Username }
func (u *User) Email() string { return u.s.Email }
func (u *User) PasswordHash() string { return u.s.PasswordHash }
func (u *User) Role() Role { return u.s.Role }
func (u *User) IsActive() bool { return u.s.IsActive }
