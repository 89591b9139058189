package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"budgettracker/internal/domain"
	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db    *gorm.DB
	clock domain.Clock
}

// NewCategoryService creates a new CategoryServicer. A nil clock means the
// system clock.
func NewCategoryService(db *gorm.DB, clock domain.Clock) CategoryServicer {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &categoryService{db: db, clock: clock}
}

// GetCategories returns the system categories, plus the user's own when
// userID is set. System categories come first, then by name.
func (s *categoryService) GetCategories(ctx context.Context, userID *uint) ([]models.Category, error) {
	q := s.db.WithContext(ctx).Model(&models.Category{})
	if userID != nil {
		q = q.Where("is_system = ? OR user_id = ?", true, *userID)
	} else {
		q = q.Where("is_system = ?", true)
	}

	var categories []models.Category
	if err := q.Order("is_system DESC").Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// GetCategoryByID retrieves a category visible to the user.
func (s *categoryService) GetCategoryByID(ctx context.Context, userID, categoryID uint) (*models.Category, error) {
	return findVisibleCategory(s.db.WithContext(ctx), userID, categoryID)
}

// CreateCategory creates a custom category for the user.
func (s *categoryService) CreateCategory(ctx context.Context, userID uint, name, description, icon, color string) (*models.Category, error) {
	db := s.db.WithContext(ctx)

	category, err := domain.NewCustomCategory(userID, name, description, icon, color, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(db, userID, category.Name(), 0); err != nil {
		return nil, err
	}

	row := models.CategoryFromDomain(category)
	if err := db.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateName
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return row, nil
}

// UpdateCategory changes a custom category. System categories are rejected
// by the entity itself.
func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID uint, name, description, icon, color string) (*models.Category, error) {
	var row *models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = s.findForChange(tx, userID, categoryID)
		if err != nil {
			return err
		}

		category := row.ToDomain()
		if err := category.Update(name, description, icon, color); err != nil {
			return err
		}
		if err := s.ensureNameFree(tx, userID, category.Name(), categoryID); err != nil {
			return err
		}

		st := category.State()
		err = tx.Model(&models.Category{}).Where("id = ?", categoryID).Updates(map[string]interface{}{
			"name":        st.Name,
			"description": st.Description,
			"icon":        st.Icon,
			"color":       st.Color,
		}).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateName
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		row.Name, row.Description, row.Icon, row.Color = st.Name, st.Description, st.Icon, st.Color
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteCategory removes a custom category that nothing references.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.findForChange(tx, userID, categoryID)
		if err != nil {
			return err
		}

		var txCount, templateCount int64
		if err := tx.Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&txCount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(&models.RecurringTransaction{}).Where("category_id = ?", categoryID).Count(&templateCount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if !row.ToDomain().CanBeDeleted(txCount + templateCount) {
			return domain.ErrCategoryNotDeletable
		}

		if err := tx.Where("category_id = ?", categoryID).Delete(&models.BudgetLimit{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.Category{}, categoryID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// findForChange loads a category the user may try to modify: system
// categories pass through so the entity can refuse them, other users'
// categories are forbidden.
func (s *categoryService) findForChange(db *gorm.DB, userID, categoryID uint) (*models.Category, error) {
	var row models.Category
	if err := db.First(&row, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !row.IsSystem && (row.UserID == nil || *row.UserID != userID) {
		return nil, apperrors.ErrForbidden
	}
	return &row, nil
}

// ensureNameFree rejects a name already used by a system category or by
// another of the user's categories, ignoring case.
func (s *categoryService) ensureNameFree(db *gorm.DB, userID uint, name string, exceptID uint) error {
	q := db.Model(&models.Category{}).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		Where("is_system = ? OR user_id = ?", true, userID)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateName
	}
	return nil
}
