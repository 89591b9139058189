package models

import (
	"time"

	"github.com/shopspring/decimal"

	"budgettracker/internal/domain"
)

// RecurringTransaction is a template that materializes into transactions.
// Deleting it detaches the transactions it generated.
type RecurringTransaction struct {
	Base
	UserID             uint            `gorm:"not null;index" json:"user_id"`
	CategoryID         uint            `gorm:"not null" json:"category_id"`
	Amount             decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Type               string          `gorm:"size:10;not null" json:"type"`
	Description        string          `gorm:"size:500;not null" json:"description"`
	Frequency          string          `gorm:"size:16;not null" json:"frequency"`
	StartDate          time.Time       `gorm:"not null" json:"start_date"`
	EndDate            *time.Time      `json:"end_date,omitempty"`
	IsActive           bool            `gorm:"not null;index" json:"is_active"`
	LastProcessedMonth *string         `gorm:"size:7" json:"last_processed_month,omitempty"`

	Category     *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:RecurringTransactionID;constraint:OnDelete:SET NULL" json:"-"`
}

// ToDomain rebuilds the guarded entity from the row.
func (r *RecurringTransaction) ToDomain() *domain.RecurringTransaction {
	var last *domain.MonthKey
	if r.LastProcessedMonth != nil {
		k := domain.MonthKey(*r.LastProcessedMonth)
		last = &k
	}
	return domain.RestoreRecurring(domain.RecurringState{
		ID:                 r.ID,
		UserID:             r.UserID,
		CategoryID:         r.CategoryID,
		Amount:             r.Amount,
		Type:               domain.TransactionType(r.Type),
		Description:        r.Description,
		Frequency:          domain.Frequency(r.Frequency),
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		IsActive:           r.IsActive,
		LastProcessedMonth: last,
	})
}

// RecurringFromDomain builds a row from the entity.
func RecurringFromDomain(d *domain.RecurringTransaction) *RecurringTransaction {
	s := d.State()
	var last *string
	if s.LastProcessedMonth != nil {
		m := s.LastProcessedMonth.String()
		last = &m
	}
	return &RecurringTransaction{
		Base:               Base{ID: s.ID},
		UserID:             s.UserID,
		CategoryID:         s.CategoryID,
		Amount:             s.Amount,
		Type:               string(s.Type),
		Description:        s.Description,
		Frequency:          string(s.Frequency),
		StartDate:          s.StartDate,
		EndDate:            s.EndDate,
		IsActive:           s.IsActive,
		LastProcessedMonth: last,
	}
}
