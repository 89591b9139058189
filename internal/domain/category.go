package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxCategoryNameLength = 50
	defaultCategoryIcon   = "📁"
	defaultCategoryColor  = "#999999"
)

var categoryColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CategoryState is the persisted shape of a Category.
type CategoryState struct {
	ID          uint
	Name        string
	Description string
	Icon        string
	Color       string
	IsSystem    bool
	UserID      *uint
	CreatedAt   time.Time
}

// Category groups transactions. System categories have no owner and are
// read-only; custom categories belong to one user.
type Category struct {
	s CategoryState
}

func validateCategory(name, color string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" || utf8.RuneCountInString(n) > maxCategoryNameLength {
		return "", ErrInvalidCategoryName
	}
	if !categoryColorRegex.MatchString(color) {
		return "", ErrInvalidColorFormat
	}
	return n, nil
}

// NewSystemCategory creates an ownerless, read-only category.
func NewSystemCategory(name, description, icon, color string, now time.Time) (*Category, error) {
	n, err := validateCategory(name, color)
	if err != nil {
		return nil, err
	}
	return &Category{s: CategoryState{
		Name:        n,
		Description: strings.TrimSpace(description),
		Icon:        icon,
		Color:       color,
		IsSystem:    true,
		CreatedAt:   now,
	}}, nil
}

// NewCustomCategory creates a category owned by userID. Empty icon and
// color fall back to the defaults.
func NewCustomCategory(userID uint, name, description, icon, color string, now time.Time) (*Category, error) {
	if icon == "" {
		icon = defaultCategoryIcon
	}
	if color == "" {
		color = defaultCategoryColor
	}
	n, err := validateCategory(name, color)
	if err != nil {
		return nil, err
	}
	owner := userID
	return &Category{s: CategoryState{
		Name:        n,
		Description: strings.TrimSpace(description),
		Icon:        icon,
		Color:       color,
		UserID:      &owner,
		CreatedAt:   now,
	}}, nil
}

// RestoreCategory rebuilds a persisted category.
func RestoreCategory(s CategoryState) *Category {
	return &Category{s: s}
}

// Update changes a custom category. Empty icon or color keep the current value.
func (c *Category) Update(name, description, icon, color string) error {
	if c.s.IsSystem {
		return ErrSystemCategoryImmutable
	}
	if icon == "" {
		icon = c.s.Icon
	}
	if color == "" {
		color = c.s.Color
	}
	n, err := validateCategory(name, color)
	if err != nil {
		return err
	}
	c.s.Name = n
	c.s.Description = strings.TrimSpace(description)
	c.s.Icon = icon
	c.s.Color = color
	return nil
}

// CanBeDeleted is true for custom categories with no transactions.
func (c *Category) CanBeDeleted(transactionCount int64) bool {
	return !c.s.IsSystem && transactionCount == 0
}

// OwnedBy reports whether userID owns this category.
func (c *Category) OwnedBy(userID uint) bool {
	return c.s.UserID != nil && *c.s.UserID == userID
}

// VisibleTo reports whether userID may attach transactions to this category.
func (c *Category) VisibleTo(userID uint) bool {
	return c.s.IsSystem || c.OwnedBy(userID)
}

// State returns a copy of the category's fields.
func (c *Category) State() CategoryState {
	s := c.s
	if s.UserID != nil {
		id := *s.UserID
		s.UserID = &id
	}
	return s
}

func (c *Category) ID() uint { return c.s.ID }
func (c *Category) Name() string { return c.s.Name }
func (c *Category) Icon() string { return c.s.Icon }
func (c *Category) Color() string { return c.s.Color }
func (c *Category) IsSystem() bool { return c.s.IsSystem }
