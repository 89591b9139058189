package models

import (
	"time"

	"github.com/shopspring/decimal"

	"budgettracker/internal/domain"
)

// Transaction represents a ledger entry in the database. The pair
// (recurring_transaction_id, month_year) is unique so a template can only
// materialize once per month.
type Transaction struct {
	Base
	UserID                 uint            `gorm:"not null;index:ix_transactions_user_month" json:"user_id"`
	CategoryID             uint            `gorm:"not null;index" json:"category_id"`
	Amount                 decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Description            string          `gorm:"size:500;not null" json:"description"`
	Date                   time.Time       `gorm:"not null;index" json:"date"`
	MonthYear              string          `gorm:"size:7;not null;index:ix_transactions_user_month;uniqueIndex:ux_transactions_recurring_month" json:"month_year"`
	Type                   string          `gorm:"size:10;not null" json:"type"`
	IsFromRecurring        bool            `gorm:"not null" json:"is_from_recurring"`
	RecurringTransactionID *uint           `gorm:"uniqueIndex:ux_transactions_recurring_month" json:"recurring_transaction_id,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// ToDomain rebuilds the guarded entity from the row.
func (t *Transaction) ToDomain() *domain.Transaction {
	return domain.RestoreTransaction(domain.TransactionState{
		ID:                     t.ID,
		UserID:                 t.UserID,
		CategoryID:             t.CategoryID,
		Amount:                 t.Amount,
		Description:            t.Description,
		Date:                   t.Date,
		MonthYear:              domain.MonthKey(t.MonthYear),
		Type:                   domain.TransactionType(t.Type),
		IsFromRecurring:        t.IsFromRecurring,
		RecurringTransactionID: t.RecurringTransactionID,
	})
}

// TransactionFromDomain builds a row from the entity.
func TransactionFromDomain(d *domain.Transaction) *Transaction {
	s := d.State()
	return &Transaction{
		Base:                   Base{ID: s.ID},
		UserID:                 s.UserID,
		CategoryID:             s.CategoryID,
		Amount:                 s.Amount,
		Description:            s.Description,
		Date:                   s.Date,
		MonthYear:              s.MonthYear.String(),
		Type:                   string(s.Type),
		IsFromRecurring:        s.IsFromRecurring,
		RecurringTransactionID: s.RecurringTransactionID,
	}
}
