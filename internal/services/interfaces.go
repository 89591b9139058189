package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"budgettracker/internal/domain"
	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, username, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	DeactivateUser(ctx context.Context, id uint) error
}

// TokenPair is what a successful login, registration or refresh returns.
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	TokenType             string    `json:"token_type"`
	ExpiresIn             int64     `json:"expires_in"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
}

// TokenServicer issues and rotates access/refresh token pairs.
type TokenServicer interface {
	IssuePair(ctx context.Context, user *models.User, ip string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken, ip string) (*TokenPair, error)
	Revoke(ctx context.Context, refreshToken, ip string) error
	RevokeAllForUser(ctx context.Context, userID uint, ip string) (int64, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	GetCategories(ctx context.Context, userID *uint) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, userID, categoryID uint) (*models.Category, error)
	CreateCategory(ctx context.Context, userID uint, name, description, icon, color string) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID uint, name, description, icon, color string) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID uint) error
}

// TransactionInput carries the editable fields of a transaction.
type TransactionInput struct {
	CategoryID  uint
	Amount      decimal.Decimal
	Type        domain.TransactionType
	Description string
	Date        time.Time
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Month      *domain.MonthKey
	CategoryID *uint
	Type       *domain.TransactionType
}

// TransactionView is the read model of a transaction. SignedAmount is
// negative for expenses.
type TransactionView struct {
	ID                     uint            `json:"id"`
	Amount                 decimal.Decimal `json:"amount"`
	SignedAmount           decimal.Decimal `json:"signed_amount"`
	Description            string          `json:"description"`
	Date                   time.Time       `json:"date"`
	MonthYear              string          `json:"month_year"`
	Type                   string          `json:"type"`
	CategoryID             uint            `json:"category_id"`
	CategoryName           string          `json:"category_name"`
	CategoryIcon           string          `json:"category_icon"`
	CategoryColor          string          `json:"category_color"`
	IsFromRecurring        bool            `json:"is_from_recurring"`
	RecurringTransactionID *uint           `json:"recurring_transaction_id,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID uint, in TransactionInput) (*TransactionView, error)
	UpdateTransaction(ctx context.Context, userID, transactionID uint, in TransactionInput) (*TransactionView, error)
	DeleteTransaction(ctx context.Context, userID, transactionID uint) error
	GetTransactions(ctx context.Context, userID uint, filter TransactionFilter) ([]TransactionView, error)
	GetTransactionByID(ctx context.Context, userID, transactionID uint) (*TransactionView, error)
}

// BudgetServicer defines the contract for budget limits and monthly summaries.
type BudgetServicer interface {
	GetMonthlySummary(ctx context.Context, userID uint, month domain.MonthKey) (*domain.MonthlySummary, error)
	SetBudgetLimit(ctx context.Context, userID, categoryID uint, month string, limit decimal.Decimal) (*models.BudgetLimit, bool, error)
	GetBudgetLimits(ctx context.Context, userID uint, month domain.MonthKey, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetLimit], error)
	DeleteBudgetLimit(ctx context.Context, userID, limitID uint) error
}

// RecurringInput carries the fields of a new recurring template. A nil
// EndDate creates an open-ended template.
type RecurringInput struct {
	CategoryID  uint
	Amount      decimal.Decimal
	Type        domain.TransactionType
	Description string
	Frequency   domain.Frequency
	StartDate   time.Time
	EndDate     *time.Time
}

// ProcessResult summarizes one run of the recurring trigger.
type ProcessResult struct {
	Month      domain.MonthKey `json:"month"`
	Considered int             `json:"considered"`
	Created    int             `json:"created"`
	Skipped    int             `json:"skipped"`
	Failed     int             `json:"failed"`
}

// RecurringServicer manages recurring templates and materializes them.
type RecurringServicer interface {
	CreateRecurring(ctx context.Context, userID uint, in RecurringInput) (*models.RecurringTransaction, error)
	GetRecurring(ctx context.Context, userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringTransaction], error)
	GetRecurringByID(ctx context.Context, userID, recurringID uint) (*models.RecurringTransaction, error)
	DeactivateRecurring(ctx context.Context, userID, recurringID uint) (*models.RecurringTransaction, error)
	ReactivateRecurring(ctx context.Context, userID, recurringID uint) (*models.RecurringTransaction, error)
	DeleteRecurring(ctx context.Context, userID, recurringID uint) error
	ProcessMonth(ctx context.Context, month domain.MonthKey) (*ProcessResult, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
