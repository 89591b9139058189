package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"budgettracker/internal/domain"
	"budgettracker/internal/models"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// System category ids used by fixtures.
const (
	SalaryCategoryID = 1
	FoodCategoryID   = 4
	OtherCategoryID  = 20
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an active user with a hashed password and a unique
// username and email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithEmail(t, db, fmt.Sprintf("user%d", n), fmt.Sprintf("user%d@test.com", n))
}

// CreateTestUserWithEmail creates a user with the given username and email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     string(domain.RoleUser),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a custom category owned by userID.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()

	owner := userID
	category := &models.Category{
		UserID: &owner,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Icon:   "📁",
		Color:  "#999999",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a manual transaction dated on date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, categoryID uint, txType domain.TransactionType, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      decimal.RequireFromString(amount),
		Description: fmt.Sprintf("Test transaction %d", nextID()),
		Date:        date,
		MonthYear:   domain.MonthOf(date).String(),
		Type:        string(txType),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestRecurring creates an active monthly template starting on start.
func CreateTestRecurring(t *testing.T, db *gorm.DB, userID, categoryID uint, amount string, start time.Time, end *time.Time) *models.RecurringTransaction {
	t.Helper()

	r := &models.RecurringTransaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      decimal.RequireFromString(amount),
		Type:        string(domain.TransactionTypeExpense),
		Description: fmt.Sprintf("Test subscription %d", nextID()),
		Frequency:   string(domain.FrequencyMonthly),
		StartDate:   start,
		EndDate:     end,
		IsActive:    true,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to create test recurring transaction: %v", err)
	}
	return r
}

// CreateTestBudgetLimit creates a spending limit for a category and month.
func CreateTestBudgetLimit(t *testing.T, db *gorm.DB, userID, categoryID uint, month, limit string) *models.BudgetLimit {
	t.Helper()

	b := &models.BudgetLimit{
		UserID:     userID,
		CategoryID: categoryID,
		MonthYear:  month,
		Limit:      decimal.RequireFromString(limit),
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("failed to create test budget limit: %v", err)
	}
	return b
}
