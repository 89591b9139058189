package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"budgettracker/internal/auth"
	"budgettracker/internal/domain"
	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	db     *gorm.DB
	hasher auth.PasswordHasher
	clock  domain.Clock
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, hasher auth.PasswordHasher, clock domain.Clock) UserServicer {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &userService{db: db, hasher: hasher, clock: clock}
}

// CreateUser registers a new user. A taken username or email is reported
// per field.
func (s *userService) CreateUser(ctx context.Context, username, email, password string) (*models.User, error) {
	if password == "" {
		return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"password": "Password is required"})
	}

	db := s.db.WithContext(ctx)
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	taken := map[string]string{}
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		taken["username"] = "Username is already taken"
	}
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		taken["email"] = "Email is already registered"
	}
	if len(taken) > 0 {
		return nil, apperrors.WithFields(apperrors.ErrValidation, taken)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user, err := domain.NewUser(username, email, hashed, s.clock.Now())
	if err != nil {
		return nil, err
	}

	row := models.UserFromDomain(user)
	if err := db.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"username": "Username or email is already taken"})
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return row, nil
}

// Authenticate checks credentials and stamps the login time. Unknown emails
// and wrong passwords fail the same way.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var row models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !s.hasher.Compare(row.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !row.IsActive {
		return nil, apperrors.ErrAccountDeactivated
	}

	user := row.ToDomain()
	user.RecordLogin(s.clock.Now())
	state := user.State()
	if err := db.Model(&models.User{}).Where("id = ?", row.ID).Update("last_login_at", state.LastLoginAt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	row.LastLoginAt = state.LastLoginAt
	return &row, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// DeactivateUser blocks further logins and refreshes for the user.
func (s *userService) DeactivateUser(ctx context.Context, id uint) error {
	row, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	user := row.ToDomain()
	user.Deactivate()
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", user.IsActive()).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
