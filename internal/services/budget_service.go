package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"budgettracker/internal/domain"
	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
)

// budgetService handles budget limits and monthly summaries.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// GetMonthlySummary aggregates the user's month against its budget limits.
// Transactions, limits and category display data are read concurrently.
func (s *budgetService) GetMonthlySummary(ctx context.Context, userID uint, month domain.MonthKey) (*domain.MonthlySummary, error) {
	var (
		txRows    []models.Transaction
		limitRows []models.BudgetLimit
		catRows   []models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("user_id = ? AND month_year = ?", userID, month.String()).
			Find(&txRows).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("user_id = ? AND month_year = ?", userID, month.String()).
			Order("id").
			Find(&limitRows).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("is_system = ? OR user_id = ?", true, userID).
			Find(&catRows).Error
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	txs := make([]*domain.Transaction, 0, len(txRows))
	for i := range txRows {
		txs = append(txs, txRows[i].ToDomain())
	}
	limits := make([]*domain.BudgetLimit, 0, len(limitRows))
	for i := range limitRows {
		limits = append(limits, limitRows[i].ToDomain())
	}
	categories := make(map[uint]domain.CategoryInfo, len(catRows))
	for i := range catRows {
		categories[catRows[i].ID] = catRows[i].Info()
	}

	return domain.Summarize(userID, month, txs, categories, limits), nil
}

// SetBudgetLimit creates the limit for (category, month) or updates the
// existing one. The bool reports whether a new limit was created.
func (s *budgetService) SetBudgetLimit(ctx context.Context, userID, categoryID uint, month string, limit decimal.Decimal) (*models.BudgetLimit, bool, error) {
	fresh, err := domain.NewBudgetLimit(userID, categoryID, month, limit)
	if err != nil {
		return nil, false, err
	}

	var (
		row     *models.BudgetLimit
		created bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := findVisibleCategory(tx, userID, categoryID)
		if err != nil {
			return err
		}

		var existing models.BudgetLimit
		err = tx.Where("user_id = ? AND category_id = ? AND month_year = ?", userID, categoryID, fresh.MonthYear().String()).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = models.BudgetLimitFromDomain(fresh)
			if err := tx.Create(row).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			created = true
		case err != nil:
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		default:
			b := existing.ToDomain()
			if err := b.UpdateLimit(limit); err != nil {
				return err
			}
			if err := tx.Model(&models.BudgetLimit{}).Where("id = ?", existing.ID).Update("limit_amount", b.Limit()).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			existing.Limit = b.Limit()
			row = &existing
		}
		row.Category = category
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return row, created, nil
}

// GetBudgetLimits lists the user's limits for a month.
func (s *budgetService) GetBudgetLimits(ctx context.Context, userID uint, month domain.MonthKey, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetLimit], error) {
	q := s.db.WithContext(ctx).Model(&models.BudgetLimit{}).
		Where("user_id = ? AND month_year = ?", userID, month.String())

	result, err := pagination.Find[models.BudgetLimit](q, page, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Category").Order("category_id ASC")
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// DeleteBudgetLimit removes one of the user's limits.
func (s *budgetService) DeleteBudgetLimit(ctx context.Context, userID, limitID uint) error {
	db := s.db.WithContext(ctx)

	var row models.BudgetLimit
	if err := db.First(&row, limitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetLimitNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if row.UserID != userID {
		return apperrors.ErrForbidden
	}
	if err := db.Delete(&models.BudgetLimit{}, limitID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
