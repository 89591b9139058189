package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money flow.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// ParseTransactionType accepts the type name in any letter case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidTransactionType
	}
	return t, nil
}

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

const maxDescriptionLength = 500

// DefaultMaxTransactionAmount is the amount ceiling used unless configured otherwise.
var DefaultMaxTransactionAmount = decimal.NewFromInt(1_000_000_000)

// AmountOption adjusts how amounts are checked when an entity is built or
// edited.
type AmountOption func(*amountRules)

type amountRules struct {
	max decimal.Decimal
}

// WithMaxAmount sets the amount ceiling. Non-positive limits are ignored.
func WithMaxAmount(limit decimal.Decimal) AmountOption {
	return func(r *amountRules) {
		if limit.IsPositive() {
			r.max = limit
		}
	}
}

func validateAmount(amount decimal.Decimal, opts []AmountOption) error {
	rules := amountRules{max: DefaultMaxTransactionAmount}
	for _, opt := range opts {
		opt(&rules)
	}
	if !amount.IsPositive() || amount.GreaterThan(rules.max) {
		return ErrInvalidAmount
	}
	return nil
}

func validateDescription(description string) (string, error) {
	d := strings.TrimSpace(description)
	if d == "" || utf8.RuneCountInString(d) > maxDescriptionLength {
		return "", ErrInvalidDescription
	}
	return d, nil
}

// TransactionState is the persisted shape of a Transaction.
type TransactionState struct {
	ID                     uint
	UserID                 uint
	CategoryID             uint
	Amount                 decimal.Decimal
	Description            string
	Date                   time.Time
	MonthYear              MonthKey
	Type                   TransactionType
	IsFromRecurring        bool
	RecurringTransactionID *uint
}

// Transaction is a single income or expense entry. The month key is always
// derived from the date and never set directly.
type Transaction struct {
	s TransactionState
}

// NewTransaction creates a user-entered transaction.
func NewTransaction(userID, categoryID uint, amount decimal.Decimal, txType TransactionType, description string, date time.Time, opts ...AmountOption) (*Transaction, error) {
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
	return &Transaction{s: TransactionState{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: desc,
		Date:        date,
		MonthYear:   MonthOf(date),
		Type:        txType,
	}}, nil
}

// NewTransactionFromRecurring stamps a transaction out of a saved template.
// The result is flagged as recurring-derived and linked back to the template.
func NewTransactionFromRecurring(r *RecurringTransaction, date time.Time, opts ...AmountOption) (*Transaction, error) {
	if r.ID() == 0 {
		return nil, ErrTemplateNotSaved
	}
	t, err := NewTransaction(r.UserID(), r.CategoryID(), r.Amount(), r.Type(), r.Description(), date, opts...)
	if err != nil {
		return nil, err
	}
	id := r.ID()
	t.s.IsFromRecurring = true
	t.s.RecurringTransactionID = &id
	return t, nil
}

// RestoreTransaction rebuilds a persisted transaction. It does not re-run the
// construction guards.
func RestoreTransaction(s TransactionState) *Transaction {
	if s.MonthYear == "" {
		s.MonthYear = MonthOf(s.Date)
	}
	return &Transaction{s: s}
}

// Update replaces the editable fields. Nothing changes when it fails.
func (t *Transaction) Update(amount decimal.Decimal, categoryID uint, description string, date time.Time, txType TransactionType, opts ...AmountOption) error {
	if t.s.IsFromRecurring || t.s.RecurringTransactionID != nil {
		return ErrRecurringTransactionImmutable
	}
	if err := validateAmount(amount, opts); err != nil {
		return err
	}
	desc, err := validateDescription(description)
	if err != nil {
		return err
	}
	if !txType.Valid() {
		return ErrInvalidTransactionType
	}
	t.s.Amount = amount
	t.s.CategoryID = categoryID
	t.s.Description = desc
	t.s.Date = date
	t.s.MonthYear = MonthOf(date)
	t.s.Type = txType
	return nil
}

// EnsureDeletable rejects deletion of recurring-derived transactions.
func (t *Transaction) EnsureDeletable() error {
	if t.s.IsFromRecurring {
		return ErrRecurringTransactionImmutable
	}
	return nil
}

// SignedAmount is the amount for income and its negation for expenses.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.s.Type == TransactionTypeExpense {
		return t.s.Amount.Neg()
	}
	return t.s.Amount
}

// State returns a copy of the transaction's fields.
func (t *Transaction) State() TransactionState {
	s := t.s
	if s.RecurringTransactionID != nil {
		id := *s.RecurringTransactionID
		s.RecurringTransactionID = &id
	}
	return s
}

func (t *Transaction) ID() uint { return t.s.ID }
func (t *Transaction) UserID() uint { return t.s.UserID }
func (t *Transaction) CategoryID() uint { return t.s.CategoryID }
func (t *Transaction) Amount() decimal.Decimal { return t.s.Amount }
func (t *Transaction) Description() string { return t.s.Description }
func (t *Transaction) Date() time.Time { return t.s.Date }
func (t *Transaction) MonthYear() MonthKey { return t.s.MonthYear }
func (t *Transaction) Type() TransactionType { return t.s.Type }
func (t *Transaction) IsFromRecurring() bool { return t.s.IsFromRecurring }
