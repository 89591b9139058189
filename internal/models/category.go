package models

import "budgettracker/internal/domain"

// Category represents a transaction category. System categories have no owner.
type Category struct {
	Base
	Name        string `gorm:"size:50;not null;uniqueIndex:ux_categories_owner_name" json:"name"`
	Description string `gorm:"size:200" json:"description"`
	Icon        string `gorm:"size:16" json:"icon"`
	Color       string `gorm:"size:7;not null" json:"color"`
	IsSystem    bool   `gorm:"not null;index" json:"is_system"`
	UserID      *uint  `gorm:"index;uniqueIndex:ux_categories_owner_name" json:"user_id,omitempty"`
}

// ToDomain rebuilds the guarded entity from the row.
func (c *Category) ToDomain() *domain.Category {
	return domain.RestoreCategory(domain.CategoryState{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		IsSystem:    c.IsSystem,
		UserID:      c.UserID,
		CreatedAt:   c.CreatedAt,
	})
}

// Info returns the display data used by summaries and transaction views.
func (c *Category) Info() domain.CategoryInfo {
	return domain.CategoryInfo{ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color}
}

// CategoryFromDomain builds a row from the entity.
func CategoryFromDomain(d *domain.Category) *Category {
	s := d.State()
	return &Category{
		Base:        Base{ID: s.ID, CreatedAt: s.CreatedAt},
		Name:        s.Name,
		Description: s.Description,
		Icon:        s.Icon,
		Color:       s.Color,
		IsSystem:    s.IsSystem,
		UserID:      s.UserID,
	}
}
