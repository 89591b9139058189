package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"budgettracker/internal/domain"
	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db        *gorm.DB
	maxAmount domain.AmountOption
}

// NewTransactionService creates a new TransactionServicer. A non-positive
// maxAmount keeps domain.DefaultMaxTransactionAmount.
func NewTransactionService(db *gorm.DB, maxAmount decimal.Decimal) TransactionServicer {
	return &transactionService{db: db, maxAmount: domain.WithMaxAmount(maxAmount)}
}

// CreateTransaction records a manual income or expense.
func (s *transactionService) CreateTransaction(ctx context.Context, userID uint, in TransactionInput) (*TransactionView, error) {
	db := s.db.WithContext(ctx)

	category, err := findVisibleCategory(db, userID, in.CategoryID)
	if err != nil {
		return nil, err
	}

	t, err := domain.NewTransaction(userID, in.CategoryID, in.Amount, in.Type, in.Description, in.Date, s.maxAmount)
	if err != nil {
		return nil, err
	}

	row := models.TransactionFromDomain(t)
	if err := db.Create(row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	row.Category = category

	view := toTransactionView(row)
	return &view, nil
}

// UpdateTransaction replaces the editable fields of a manual transaction.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID uint, in TransactionInput) (*TransactionView, error) {
	var row *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = findOwnedTransaction(tx, userID, transactionID)
		if err != nil {
			return err
		}

		t := row.ToDomain()
		if err := t.Update(in.Amount, in.CategoryID, in.Description, in.Date, in.Type, s.maxAmount); err != nil {
			return err
		}

		category, err := findVisibleCategory(tx, userID, in.CategoryID)
		if err != nil {
			return err
		}

		st := t.State()
		err = tx.Model(&models.Transaction{}).Where("id = ?", transactionID).Updates(map[string]interface{}{
			"category_id": st.CategoryID,
			"amount":      st.Amount,
			"description": st.Description,
			"date":        st.Date,
			"month_year":  st.MonthYear.String(),
			"type":        string(st.Type),
		}).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		updated := models.TransactionFromDomain(t)
		updated.CreatedAt = row.CreatedAt
		updated.Category = category
		row = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := toTransactionView(row)
	return &view, nil
}

// DeleteTransaction removes a manual transaction.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID uint) error {
	db := s.db.WithContext(ctx)

	row, err := findOwnedTransaction(db, userID, transactionID)
	if err != nil {
		return err
	}
	if err := row.ToDomain().EnsureDeletable(); err != nil {
		return err
	}
	if err := db.Delete(&models.Transaction{}, transactionID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetTransactions lists a user's transactions, newest first.
func (s *transactionService) GetTransactions(ctx context.Context, userID uint, filter TransactionFilter) ([]TransactionView, error) {
	q := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	q = applyTransactionFilters(q, filter)

	var rows []models.Transaction
	if err := q.Preload("Category").Order("date DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]TransactionView, 0, len(rows))
	for i := range rows {
		views = append(views, toTransactionView(&rows[i]))
	}
	return views, nil
}

// GetTransactionByID returns a single transaction owned by the user.
func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID uint) (*TransactionView, error) {
	db := s.db.WithContext(ctx).Preload("Category")
	row, err := findOwnedTransaction(db, userID, transactionID)
	if err != nil {
		return nil, err
	}
	view := toTransactionView(row)
	return &view, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Month != nil {
		q = q.Where("month_year = ?", f.Month.String())
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Type != nil {
		q = q.Where("type = ?", string(*f.Type))
	}
	return q
}

// findOwnedTransaction separates a missing transaction from one that
// belongs to someone else.
func findOwnedTransaction(db *gorm.DB, userID, transactionID uint) (*models.Transaction, error) {
	var row models.Transaction
	if err := db.First(&row, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if row.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return &row, nil
}

// findVisibleCategory loads a system category or one of the user's own.
func findVisibleCategory(db *gorm.DB, userID, categoryID uint) (*models.Category, error) {
	var row models.Category
	err := db.Where("id = ? AND (is_system = ? OR user_id = ?)", categoryID, true, userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &row, nil
}

func toTransactionView(row *models.Transaction) TransactionView {
	t := row.ToDomain()
	view := TransactionView{
		ID:                     row.ID,
		Amount:                 row.Amount,
		SignedAmount:           t.SignedAmount(),
		Description:            row.Description,
		Date:                   row.Date,
		MonthYear:              row.MonthYear,
		Type:                   row.Type,
		CategoryID:             row.CategoryID,
		IsFromRecurring:        row.IsFromRecurring,
		RecurringTransactionID: row.RecurringTransactionID,
		CreatedAt:              row.CreatedAt,
	}
	if row.Category != nil {
		view.CategoryName = row.Category.Name
		view.CategoryIcon = row.Category.Icon
		view.CategoryColor = row.Category.Color
	}
	return view
}
