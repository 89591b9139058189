// Package domain holds the ledger entities and the rules that guard them.
// Entities keep their state unexported; every mutation goes through a
// factory or method that re-checks the invariants, so a value obtained from
// this package is always valid.
package domain

// Error is a business-rule violation raised by an entity guard. The set of
// codes is closed: callers compare against the sentinels below with errors.Is.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Transaction rules.
var (
	ErrInvalidAmount                 = newError("INVALID_AMOUNT", "Amount must be greater than zero and within the allowed maximum")
	ErrInvalidDescription            = newError("INVALID_DESCRIPTION", "Description is required and must be at most 500 characters")
	ErrInvalidTransactionType        = newError("INVALID_TRANSACTION_TYPE", "Transaction type must be Income or Expense")
	ErrRecurringTransactionImmutable = newError("RECURRING_TRANSACTION_IMMUTABLE", "Transactions generated from a recurring template cannot be changed directly")
)

// Category rules.
var (
	ErrInvalidCategoryName     = newError("INVALID_CATEGORY_NAME", "Category name is required and must be at most 50 characters")
	ErrInvalidColorFormat      = newError("INVALID_COLOR_FORMAT", "Color must be a hex value like #RRGGBB")
	ErrSystemCategoryImmutable = newError("SYSTEM_CATEGORY_IMMUTABLE", "System categories cannot be modified")
	ErrCategoryNotDeletable    = newError("CATEGORY_NOT_DELETABLE", "Category is a system category or still has transactions")
)

// Budget limit rules.
var (
	ErrInvalidMonthFormat = newError("INVALID_MONTH_FORMAT", "Month must be in yyyy-MM format")
	ErrInvalidLimitAmount = newError("INVALID_LIMIT_AMOUNT", "Budget limit must be greater than zero")
)

// Recurring template rules.
var (
	ErrInvalidDateRange = newError("INVALID_DATE_RANGE", "End date must be after start date")
	ErrInvalidFrequency = newError("INVALID_FREQUENCY", "Frequency must be Monthly, Quarterly or Yearly")
	ErrTemplateNotSaved = newError("TEMPLATE_NOT_SAVED", "Recurring template must be saved before generating transactions")
)

// Refresh token rules.
var (
	ErrTokenEmpty        = newError("TOKEN_EMPTY", "Token is required")
	ErrTokenTooShort     = newError("TOKEN_TOO_SHORT", "Token must be at least 32 characters")
	ErrInvalidExpiration = newError("TOKEN_INVALID_EXPIRATION", "Token expiration must be in the future")
	ErrTokenExpired      = newError("TOKEN_EXPIRED", "Token has expired")
	ErrTokenRevoked      = newError("TOKEN_REVOKED", "Token has been revoked")
	ErrAlreadyRevoked    = newError("TOKEN_ALREADY_REVOKED", "Token is already revoked")
)

// User rules.
var (
	ErrInvalidUsername     = newError("INVALID_USERNAME", "Username is required and must be at most 50 characters")
	ErrInvalidEmail        = newError("INVALID_EMAIL", "A valid email address is required")
	ErrInvalidPasswordHash = newError("INVALID_PASSWORD_HASH", "Password hash is required")
)
