package testutil_test

import (
	"testing"
	"time"

	"budgettracker/internal/domain"
	"budgettracker/internal/errors"
	"budgettracker/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "categories", "transactions", "budget_limits", "recurring_transactions", "refresh_tokens", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}

	if err := db.Table("categories").Where("is_system = ?", true).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 20 {
		t.Errorf("expected 20 system categories, got %d", count)
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	a := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, a)
	b := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, b)

	testutil.CreateTestUser(t, a)

	var count int64
	b.Table("users").Count(&count)
	if count != 0 {
		t.Errorf("databases should not share rows, got %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	category := testutil.CreateTestCategory(t, db, user.ID)
	if category.ID <= 20 {
		t.Errorf("custom category should get an id after the seeded ones, got %d", category.ID)
	}

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tx := testutil.CreateTestTransaction(t, db, user.ID, category.ID, domain.TransactionTypeExpense, "12.50", date)
	if tx.MonthYear != "2026-03" {
		t.Errorf("expected month 2026-03, got %s", tx.MonthYear)
	}

	r := testutil.CreateTestRecurring(t, db, user.ID, testutil.OtherCategoryID, "9.99", date, nil)
	if !r.IsActive {
		t.Error("recurring fixture should be active")
	}

	limit := testutil.CreateTestBudgetLimit(t, db, user.ID, category.ID, "2026-03", "100")
	if limit.Limit.String() != "100" {
		t.Errorf("expected limit 100, got %s", limit.Limit)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrTransactionNotFound, "custom message")
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
