package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often a recurring template materializes.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// cadences decide whether a template is due in month, counted from its start month.
var cadences = map[Frequency]func(start, month MonthKey) bool{
	FrequencyMonthly:   func(_, _ MonthKey) bool { return true },
	FrequencyQuarterly: func(start, month MonthKey) bool { return month.MonthsSince(start)%3 == 0 },
	FrequencyYearly:    func(start, month MonthKey) bool { return month.MonthsSince(start)%12 == 0 },
}

// ParseFrequency accepts any letter case; empty means monthly.
func ParseFrequency(s string) (Frequency, error) {
	if strings.TrimSpace(s) == "" {
		return FrequencyMonthly, nil
	}
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := cadences[f]; !ok {
		return "", ErrInvalidFrequency
	}
	return f, nil
}

// RecurringState is the persisted shape of a RecurringTransaction.
type RecurringState struct {
	ID                 uint
	UserID             uint
	CategoryID         uint
	Amount             decimal.Decimal
	Type               TransactionType
	Description        string
	Frequency          Frequency
	StartDate          time.Time
	EndDate            *time.Time
	IsActive           bool
	LastProcessedMonth *MonthKey
}

// RecurringTransaction is a template that yields at most one transaction
// per eligible calendar month. A template with an end date goes inactive
// once its final month has been processed.
type RecurringTransaction struct {
	s RecurringState
}

// NewInfiniteRecurring creates an open-ended template.
func NewInfiniteRecurring(userID, categoryID uint, amount decimal.Decimal, txType TransactionType, description string, frequency Frequency, startDate time.Time, opts ...AmountOption) (*RecurringTransaction, error) {
	if err := validateAmount(amount, opts); err != nil {
		return nil, err
	}
	desc, err := validateDescription(description)
	if err != nil {
		return nil, err
	}
	if !txType.Valid() {
		return nil, ErrInvalidTransactionType
	}
	if frequency == "" {
		frequency = FrequencyMonthly
	}
	if _, ok := cadences[frequency]; !ok {
		return nil, ErrInvalidFrequency
	}
	return &RecurringTransaction{s: RecurringState{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Type:        txType,
		Description: desc,
		Frequency:   frequency,
		StartDate:   startDate,
		IsActive:    true,
	}}, nil
}

// NewFixedTermRecurring creates a template that stops after endDate.
func NewFixedTermRecurring(userID, categoryID uint, amount decimal.Decimal, txType TransactionType, description string, frequency Frequency, startDate, endDate time.Time, opts ...AmountOption) (*RecurringTransaction, error) {
	if !endDate.After(startDate) {
		return nil, ErrInvalidDateRange
	}
	r, err := NewInfiniteRecurring(userID, categoryID, amount, txType, description, frequency, startDate, opts...)
	if err != nil {
		return nil, err
	}
	r.s.EndDate = &endDate
	return r, nil
}

// RestoreRecurring rebuilds a persisted template.
func RestoreRecurring(s RecurringState) *RecurringTransaction {
	return &RecurringTransaction{s: s}
}

// ShouldProcessForMonth reports whether month still needs a transaction
// from this template. It does not change state.
func (r *RecurringTransaction) ShouldProcessForMonth(month MonthKey) bool {
	if !r.s.IsActive {
		return false
	}
	start := MonthOf(r.s.StartDate)
	if month.Before(start) {
		return false
	}
	if r.s.EndDate != nil && month.After(MonthOf(*r.s.EndDate)) {
		return false
	}
	if due, ok := cadences[r.s.Frequency]; ok && !due(start, month) {
		return false
	}
	if r.s.LastProcessedMonth != nil && *r.s.LastProcessedMonth == month {
		return false
	}
	return true
}

// MarkAsProcessed records month as done and retires a fixed-term template
// whose final month has been reached.
func (r *RecurringTransaction) MarkAsProcessed(month MonthKey) {
	m := month
	r.s.LastProcessedMonth = &m
	if r.s.EndDate != nil && !month.Before(MonthOf(*r.s.EndDate)) {
		r.s.IsActive = false
	}
}

// ScheduledDate is the day within month on which the generated transaction
// is dated: the start date's day, clamped to the month's length.
func (r *RecurringTransaction) ScheduledDate(month MonthKey) time.Time {
	return month.DayIn(r.s.StartDate.Day())
}

// Deactivate stops future materialization.
func (r *RecurringTransaction) Deactivate() { r.s.IsActive = false }

// Reactivate resumes materialization.
func (r *RecurringTransaction) Reactivate() { r.s.IsActive = true }

// State returns a copy of the template's fields.
func (r *RecurringTransaction) State() RecurringState {
	s := r.s
	if s.EndDate != nil {
		e := *s.EndDate
		s.EndDate = &e
	}
	if s.LastProcessedMonth != nil {
		m := *s.LastProcessedMonth
		s.LastProcessedMonth = &m
	}
	return s
}

func (r *RecurringTransaction) ID() uint { return r.s.ID }
func (r *RecurringTransaction) UserID() uint { return r.s.UserID }
func (r *RecurringTransaction) CategoryID() uint { return r.s.CategoryID }
func (r *RecurringTransaction) Amount() decimal.Decimal { return r.s.Amount }
func (r *RecurringTransaction) Type() TransactionType { return r.s.Type }
func (r *RecurringTransaction) Description() string { return r.s.Description }
func (r *RecurringTransaction) IsActive() bool { return r.s.IsActive }
