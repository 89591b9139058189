package models

import (
	"github.com/shopspring/decimal"

	"budgettracker/internal/domain"
)

// BudgetLimit caps spending per (user, category, month).
type BudgetLimit struct {
	Base
	UserID     uint            `gorm:"not null;uniqueIndex:ux_budget_limits_user_category_month" json:"user_id"`
	CategoryID uint            `gorm:"not null;uniqueIndex:ux_budget_limits_user_category_month" json:"category_id"`
	MonthYear  string          `gorm:"size:7;not null;uniqueIndex:ux_budget_limits_user_category_month" json:"month_year"`
	Limit      decimal.Decimal `gorm:"column:limit_amount;type:decimal(18,2);not null" json:"limit"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// ToDomain rebuilds the guarded entity from the row.
func (b *BudgetLimit) ToDomain() *domain.BudgetLimit {
	return domain.RestoreBudgetLimit(domain.BudgetLimitState{
		ID:         b.ID,
		UserID:     b.UserID,
		CategoryID: b.CategoryID,
		MonthYear:  domain.MonthKey(b.MonthYear),
		Limit:      b.Limit,
	})
}

// BudgetLimitFromDomain builds a row from the entity.
func BudgetLimitFromDomain(d *domain.BudgetLimit) *BudgetLimit {
	s := d.State()
	return &BudgetLimit{
		Base:       Base{ID: s.ID},
		UserID:     s.UserID,
		CategoryID: s.CategoryID,
		MonthYear:  s.MonthYear.String(),
		Limit:      s.Limit,
	}
}
