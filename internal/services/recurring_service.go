package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"budgettracker/internal/domain"
	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/events"
	"budgettracker/internal/lock"
	"budgettracker/internal/logger"
	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
)

const templateLockTTL = 30 * time.Second

// RecurringOptions configures the recurring service.
type RecurringOptions struct {
	// Workers bounds how many templates are materialized at once.
	Workers   int
	Locker    lock.Locker
	Publisher events.Publisher
	Clock     domain.Clock
	// MaxAmount caps template amounts; non-positive keeps the domain default.
	MaxAmount decimal.Decimal
}

// recurringService manages recurring templates and turns them into
// transactions month by month.
type recurringService struct {
	db        *gorm.DB
	workers   int
	locker    lock.Locker
	publisher events.Publisher
	clock     domain.Clock
	maxAmount domain.AmountOption
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(db *gorm.DB, opts RecurringOptions) RecurringServicer {
	s := &recurringService{
		db:        db,
		workers:   opts.Workers,
		locker:    opts.Locker,
		publisher: opts.Publisher,
		clock:     opts.Clock,
		maxAmount: domain.WithMaxAmount(opts.MaxAmount),
	}
	if s.workers < 1 {
		s.workers = 1
	}
	if s.locker == nil {
		s.locker = lock.NewLocalLocker()
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.clock == nil {
		s.clock = domain.SystemClock{}
	}
	return s
}

// CreateRecurring saves a new active template.
func (s *recurringService) CreateRecurring(ctx context.Context, userID uint, in RecurringInput) (*models.RecurringTransaction, error) {
	db := s.db.WithContext(ctx)

	category, err := findVisibleCategory(db, userID, in.CategoryID)
	if err != nil {
		return nil, err
	}

	var template *domain.RecurringTransaction
	if in.EndDate != nil {
		template, err = domain.NewFixedTermRecurring(userID, in.CategoryID, in.Amount, in.Type, in.Description, in.Frequency, in.StartDate, *in.EndDate, s.maxAmount)
	} else {
		template, err = domain.NewInfiniteRecurring(userID, in.CategoryID, in.Amount, in.Type, in.Description, in.Frequency, in.StartDate, s.maxAmount)
	}
	if err != nil {
		return nil, err
	}

	row := models.RecurringFromDomain(template)
	if err := db.Create(row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	row.Category = category
	return row, nil
}

// GetRecurring lists the user's templates.
func (s *recurringService) GetRecurring(ctx context.Context, userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringTransaction], error) {
	q := s.db.WithContext(ctx).Model(&models.RecurringTransaction{}).
		Where("user_id = ?", userID)

	result, err := pagination.Find[models.RecurringTransaction](q, page, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Category").
			Order("is_active DESC").
			Order("start_date ASC").
			Order("id ASC")
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetRecurringByID returns one of the user's templates.
func (s *recurringService) GetRecurringByID(ctx context.Context, userID, recurringID uint) (*models.RecurringTransaction, error) {
	return findOwnedRecurring(s.db.WithContext(ctx).Preload("Category"), userID, recurringID)
}

// DeactivateRecurring stops future materialization.
func (s *recurringService) DeactivateRecurring(ctx context.Context, userID, recurringID uint) (*models.RecurringTransaction, error) {
	return s.setActive(ctx, userID, recurringID, (*domain.RecurringTransaction).Deactivate)
}

// ReactivateRecurring resumes materialization.
func (s *recurringService) ReactivateRecurring(ctx context.Context, userID, recurringID uint) (*models.RecurringTransaction, error) {
	return s.setActive(ctx, userID, recurringID, (*domain.RecurringTransaction).Reactivate)
}

func (s *recurringService) setActive(ctx context.Context, userID, recurringID uint, apply func(*domain.RecurringTransaction)) (*models.RecurringTransaction, error) {
	db := s.db.WithContext(ctx)

	row, err := findOwnedRecurring(db, userID, recurringID)
	if err != nil {
		return nil, err
	}
	template := row.ToDomain()
	apply(template)

	if err := db.Model(&models.RecurringTransaction{}).Where("id = ?", recurringID).Update("is_active", template.IsActive()).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	row.IsActive = template.IsActive()
	return row, nil
}

// DeleteRecurring removes a template. Transactions it already generated are
// kept and become ordinary manual transactions.
func (s *recurringService) DeleteRecurring(ctx context.Context, userID, recurringID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedRecurring(tx, userID, recurringID); err != nil {
			return err
		}

		err := tx.Model(&models.Transaction{}).
			Where("recurring_transaction_id = ?", recurringID).
			Updates(map[string]interface{}{
				"recurring_transaction_id": nil,
				"is_from_recurring":        false,
			}).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Delete(&models.RecurringTransaction{}, recurringID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

type processOutcome int

const (
	outcomeSkipped processOutcome = iota
	outcomeCreated
)

// ProcessMonth materializes every active template due in month. Templates
// run concurrently up to the configured worker count; a failing template is
// logged and counted without stopping the others.
func (s *recurringService) ProcessMonth(ctx context.Context, month domain.MonthKey) (*ProcessResult, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.RecurringTransaction{}).
		Where("is_active = ?", true).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := &ProcessResult{Month: month, Considered: len(ids)}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			outcome, err := s.processTemplate(ctx, id, month)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				result.Failed++
				logger.Get().Errorw("failed to materialize recurring transaction",
					"error", err,
					"recurring_id", id,
					"month", month,
				)
			case outcome == outcomeCreated:
				result.Created++
			default:
				result.Skipped++
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	logger.Get().Infow("Recurring transactions processed",
		"month", month,
		"considered", result.Considered,
		"created", result.Created,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

// processTemplate runs the check, generate and mark sequence for one
// template under its lock.
func (s *recurringService) processTemplate(ctx context.Context, id uint, month domain.MonthKey) (processOutcome, error) {
	unlock, err := s.locker.TryAcquire(ctx, fmt.Sprintf("recurring:%d", id), templateLockTTL)
	if errors.Is(err, lock.ErrNotAcquired) {
		return outcomeSkipped, nil
	}
	if err != nil {
		return outcomeSkipped, err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			logger.Get().Warnw("failed to release recurring lock", "error", err, "recurring_id", id)
		}
	}()

	var generated *models.Transaction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.RecurringTransaction
		if err := tx.First(&row, id).Error; err != nil {
			return err
		}

		template := row.ToDomain()
		if !template.ShouldProcessForMonth(month) {
			return nil
		}

		t, err := domain.NewTransactionFromRecurring(template, template.ScheduledDate(month), s.maxAmount)
		if err != nil {
			return err
		}
		template.MarkAsProcessed(month)

		txRow := models.TransactionFromDomain(t)
		if err := tx.Create(txRow).Error; err != nil {
			return err
		}

		st := template.State()
		if err := tx.Model(&models.RecurringTransaction{}).Where("id = ?", id).Updates(map[string]interface{}{
			"last_processed_month": st.LastProcessedMonth.String(),
			"is_active":            st.IsActive,
		}).Error; err != nil {
			return err
		}

		generated = txRow
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrRecordNotFound) {
			return outcomeSkipped, nil
		}
		return outcomeSkipped, err
	}
	if generated == nil {
		return outcomeSkipped, nil
	}

	s.publish(ctx, generated, month)
	return outcomeCreated, nil
}

func (s *recurringService) publish(ctx context.Context, t *models.Transaction, month domain.MonthKey) {
	err := s.publisher.Publish(ctx, events.New(events.RecurringMaterialized, s.clock.Now(), map[string]any{
		"recurring_id":   *t.RecurringTransactionID,
		"transaction_id": t.ID,
		"user_id":        t.UserID,
		"month":          month.String(),
		"amount":         t.Amount.String(),
		"type":           t.Type,
	}))
	if err != nil {
		logger.Get().Warnw("failed to publish recurring event", "error", err, "transaction_id", t.ID)
	}
}

func findOwnedRecurring(db *gorm.DB, userID, recurringID uint) (*models.RecurringTransaction, error) {
	var row models.RecurringTransaction
	if err := db.First(&row, recurringID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if row.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return &row, nil
}
