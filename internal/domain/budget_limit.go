package domain

import "github.com/shopspring/decimal"

// BudgetLimitState is the persisted shape of a BudgetLimit.
type BudgetLimitState struct {
	ID         uint
	UserID     uint
	CategoryID uint
	MonthYear  MonthKey
	Limit      decimal.Decimal
}

// BudgetLimit caps a user's spending in one category for one month.
type BudgetLimit struct {
	s BudgetLimitState
}

// NewBudgetLimit validates the month key and a positive limit.
func NewBudgetLimit(userID, categoryID uint, month string, limit decimal.Decimal) (*BudgetLimit, error) {
	key, err := ParseMonthKey(month)
	if err != nil {
		return nil, err
	}
	if !limit.IsPositive() {
		return nil, ErrInvalidLimitAmount
	}
	return &BudgetLimit{s: BudgetLimitState{
		UserID:     userID,
		CategoryID: categoryID,
		MonthYear:  key,
		Limit:      limit,
	}}, nil
}

// RestoreBudgetLimit rebuilds a persisted limit.
func RestoreBudgetLimit(s BudgetLimitState) *BudgetLimit {
	return &BudgetLimit{s: s}
}

// UpdateLimit replaces the limit amount.
func (b *BudgetLimit) UpdateLimit(limit decimal.Decimal) error {
	if !limit.IsPositive() {
		return ErrInvalidLimitAmount
	}
	b.s.Limit = limit
	return nil
}

// State returns a copy of the limit's fields.
func (b *BudgetLimit) State() BudgetLimitState { return b.s }

func (b *BudgetLimit) ID() uint { return b.s.ID }
func (b *BudgetLimit) UserID() uint { return b.s.UserID }
func (b *BudgetLimit) CategoryID() uint { return b.s.CategoryID }
func (b *BudgetLimit) MonthYear() MonthKey { return b.s.MonthYear }
func (b *BudgetLimit) Limit() decimal.Decimal { return b.s.Limit }
