package domain

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// percentPlaces is the rounding applied to savings rate and limit usage.
const percentPlaces = 2

// CategoryInfo is the display data attached to a breakdown row.
type CategoryInfo struct {
	ID    uint
	Name  string
	Icon  string
	Color string
}

// CategoryBreakdown aggregates one category within a month.
type CategoryBreakdown struct {
	CategoryID        uint             `json:"category_id"`
	CategoryName      string           `json:"category_name"`
	CategoryIcon      string           `json:"category_icon"`
	CategoryColor     string           `json:"category_color"`
	Income            decimal.Decimal  `json:"income"`
	Expenses          decimal.Decimal  `json:"expenses"`
	Net               decimal.Decimal  `json:"net"`
	TransactionCount  int              `json:"transaction_count"`
	BudgetLimit       *decimal.Decimal `json:"budget_limit"`
	PercentageOfLimit *decimal.Decimal `json:"percentage_of_limit"`
	IsOverBudget      bool             `json:"is_over_budget"`
}

// MonthlySummary is the aggregated view of one user's month.
type MonthlySummary struct {
	UserID            uint                `json:"user_id"`
	MonthYear         MonthKey            `json:"month_year"`
	TotalIncome       decimal.Decimal     `json:"total_income"`
	TotalExpenses     decimal.Decimal     `json:"total_expenses"`
	Net               decimal.Decimal     `json:"net"`
	SavingsRate       decimal.Decimal     `json:"savings_rate"`
	TransactionCount  int                 `json:"transaction_count"`
	CategoryBreakdown []CategoryBreakdown `json:"category_breakdown"`
}

// Summarize folds a month of transactions into totals and a per-category
// breakdown ordered by absolute net, largest first. Transactions and limits
// outside userID and month are ignored. When a category has several limits
// the first one wins.
func Summarize(userID uint, month MonthKey, txs []*Transaction, categories map[uint]CategoryInfo, limits []*BudgetLimit) *MonthlySummary {
	limitByCategory := make(map[uint]decimal.Decimal)
	for _, l := range limits {
		if l.UserID() != userID || l.MonthYear() != month {
			continue
		}
		if _, seen := limitByCategory[l.CategoryID()]; !seen {
			limitByCategory[l.CategoryID()] = l.Limit()
		}
	}

	summary := &MonthlySummary{
		UserID:            userID,
		MonthYear:         month,
		TotalIncome:       decimal.Zero,
		TotalExpenses:     decimal.Zero,
		CategoryBreakdown: []CategoryBreakdown{},
	}

	index := make(map[uint]int)
	for _, t := range txs {
		if t.UserID() != userID || t.MonthYear() != month {
			continue
		}
		summary.TransactionCount++

		i, ok := index[t.CategoryID()]
		if !ok {
			info, found := categories[t.CategoryID()]
			if !found {
				info = CategoryInfo{ID: t.CategoryID()}
			}
			summary.CategoryBreakdown = append(summary.CategoryBreakdown, CategoryBreakdown{
				CategoryID:    t.CategoryID(),
				CategoryName:  info.Name,
				CategoryIcon:  info.Icon,
				CategoryColor: info.Color,
				Income:        decimal.Zero,
				Expenses:      decimal.Zero,
			})
			i = len(summary.CategoryBreakdown) - 1
			index[t.CategoryID()] = i
		}
		row := &summary.CategoryBreakdown[i]
		row.TransactionCount++

		switch t.Type() {
		case TransactionTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount())
			row.Income = row.Income.Add(t.Amount())
		case TransactionTypeExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(t.Amount())
			row.Expenses = row.Expenses.Add(t.Amount())
		}
	}

	for i := range summary.CategoryBreakdown {
		row := &summary.CategoryBreakdown[i]
		row.Net = row.Income.Sub(row.Expenses)
		limit, ok := limitByCategory[row.CategoryID]
		if !ok {
			continue
		}
		l := limit
		row.BudgetLimit = &l
		if limit.IsPositive() {
			pct := row.Expenses.Mul(hundred).Div(limit).Round(percentPlaces)
			row.PercentageOfLimit = &pct
		}
		row.IsOverBudget = row.Expenses.GreaterThan(limit)
	}

	slices.SortStableFunc(summary.CategoryBreakdown, func(a, b CategoryBreakdown) int {
		if c := b.Net.Abs().Cmp(a.Net.Abs()); c != 0 {
			return c
		}
		return cmp.Compare(a.CategoryID, b.CategoryID)
	})

	summary.Net = summary.TotalIncome.Sub(summary.TotalExpenses)
	summary.SavingsRate = decimal.Zero
	if summary.TotalIncome.IsPositive() {
		summary.SavingsRate = summary.Net.Mul(hundred).Div(summary.TotalIncome).Round(percentPlaces)
	}
	return summary
}
