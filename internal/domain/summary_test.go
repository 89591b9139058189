package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgettracker/internal/domain"
)

func mustTx(t *testing.T, userID, categoryID uint, amount string, txType domain.TransactionType, date time.Time) *domain.Transaction {
	t.Helper()
	tx, err := domain.NewTransaction(userID, categoryID, dec(amount), txType, "entry", date)
	require.NoError(t, err)
	return tx
}

func TestSummarize(t *testing.T) {
	cats := map[uint]domain.CategoryInfo{
		1: {ID: 1, Name: "Salary", Icon: "💰", Color: "#4CAF50"},
		4: {ID: 4, Name: "Food & Dining", Icon: "🍔", Color: "#FF6B6B"},
		5: {ID: 5, Name: "Transportation", Icon: "🚗", Color: "#4ECDC4"},
	}

	t.Run("totals_and_savings_rate", func(t *testing.T) {
		txs := []*domain.Transaction{
			mustTx(t, 1, 1, "5000", domain.TransactionTypeIncome, jan15),
			mustTx(t, 1, 4, "125", domain.TransactionTypeExpense, jan15),
		}
		s := domain.Summarize(1, "2026-01", txs, cats, nil)

		assert.True(t, s.TotalIncome.Equal(dec("5000")))
		assert.True(t, s.TotalExpenses.Equal(dec("125")))
		assert.True(t, s.Net.Equal(dec("4875")))
		assert.True(t, s.SavingsRate.Equal(dec("97.5")))
		assert.Equal(t, 2, s.TransactionCount)
		require.Len(t, s.CategoryBreakdown, 2)
		assert.Equal(t, "Salary", s.CategoryBreakdown[0].CategoryName)
	})

	t.Run("budget_limit_exceeded", func(t *testing.T) {
		limit, err := domain.NewBudgetLimit(1, 4, "2026-01", dec("200"))
		require.NoError(t, err)
		txs := []*domain.Transaction{
			mustTx(t, 1, 4, "150", domain.TransactionTypeExpense, jan15),
			mustTx(t, 1, 4, "100", domain.TransactionTypeExpense, jan15.AddDate(0, 0, 3)),
		}
		s := domain.Summarize(1, "2026-01", txs, cats, []*domain.BudgetLimit{limit})

		require.Len(t, s.CategoryBreakdown, 1)
		row := s.CategoryBreakdown[0]
		assert.True(t, row.Expenses.Equal(dec("250")))
		require.NotNil(t, row.BudgetLimit)
		assert.True(t, row.BudgetLimit.Equal(dec("200")))
		require.NotNil(t, row.PercentageOfLimit)
		assert.True(t, row.PercentageOfLimit.Equal(dec("125")))
		assert.True(t, row.IsOverBudget)
		assert.Equal(t, 2, row.TransactionCount)
	})

	t.Run("within_limit_and_no_limit", func(t *testing.T) {
		limit, err := domain.NewBudgetLimit(1, 4, "2026-01", dec("300"))
		require.NoError(t, err)
		txs := []*domain.Transaction{
			mustTx(t, 1, 4, "100", domain.TransactionTypeExpense, jan15),
			mustTx(t, 1, 5, "40", domain.TransactionTypeExpense, jan15),
		}
		s := domain.Summarize(1, "2026-01", txs, cats, []*domain.BudgetLimit{limit})

		require.Len(t, s.CategoryBreakdown, 2)
		food, transport := s.CategoryBreakdown[0], s.CategoryBreakdown[1]
		assert.False(t, food.IsOverBudget)
		assert.True(t, food.PercentageOfLimit.Equal(dec("33.33")))
		assert.Nil(t, transport.BudgetLimit)
		assert.Nil(t, transport.PercentageOfLimit)
		assert.False(t, transport.IsOverBudget)
		assert.True(t, s.SavingsRate.IsZero())
	})

	t.Run("ordered_by_absolute_net", func(t *testing.T) {
		txs := []*domain.Transaction{
			mustTx(t, 1, 5, "5", domain.TransactionTypeExpense, jan15),
			mustTx(t, 1, 1, "20", domain.TransactionTypeIncome, jan15),
			mustTx(t, 1, 4, "80", domain.TransactionTypeExpense, jan15),
		}
		s := domain.Summarize(1, "2026-01", txs, cats, nil)

		require.Len(t, s.CategoryBreakdown, 3)
		assert.True(t, s.CategoryBreakdown[0].Net.Equal(dec("-80")))
		assert.True(t, s.CategoryBreakdown[1].Net.Equal(dec("20")))
		assert.True(t, s.CategoryBreakdown[2].Net.Equal(dec("-5")))
	})

	t.Run("ignores_other_months_and_users", func(t *testing.T) {
		txs := []*domain.Transaction{
			mustTx(t, 1, 4, "10", domain.TransactionTypeExpense, jan15.AddDate(0, 1, 0)),
			mustTx(t, 2, 4, "10", domain.TransactionTypeExpense, jan15),
		}
		s := domain.Summarize(1, "2026-01", txs, cats, nil)
		assert.Equal(t, 0, s.TransactionCount)
	})

	t.Run("empty_month", func(t *testing.T) {
		s := domain.Summarize(1, "2026-01", nil, cats, nil)
		assert.True(t, s.TotalIncome.IsZero())
		assert.True(t, s.TotalExpenses.IsZero())
		assert.True(t, s.Net.IsZero())
		assert.True(t, s.SavingsRate.IsZero())
		assert.NotNil(t, s.CategoryBreakdown)
		assert.Empty(t, s.CategoryBreakdown)
	})
}
