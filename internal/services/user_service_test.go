package services

import (
	"context"
	"errors"
	"testing"

	"budgettracker/internal/domain"
	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
	"budgettracker/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, testHasher(), domain.FixedClock{T: testNow})

		user, err := svc.CreateUser(ctx, "alice", "Alice@Example.com", "password123")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Password == "password123" {
			t.Error("password must be stored hashed")
		}
		if user.Role != "user" || !user.IsActive {
			t.Errorf("expected active user with default role, got %s/%v", user.Role, user.IsActive)
		}
	})

	t.Run("username_and_email_taken", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, testHasher(), nil)

		_, err := svc.CreateUser(ctx, "bob", "bob@example.com", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser(ctx, "bob", "bob@example.com", "password456")
		testutil.AssertAppError(t, err, "VALIDATION_FAILED")

		var appErr *apperrors.AppError
		errors.As(err, &appErr)
		if appErr.Fields["username"] == "" || appErr.Fields["email"] == "" {
			t.Errorf("expected both fields reported, got %v", appErr.Fields)
		}
	})

	t.Run("email_taken_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, testHasher(), nil)

		_, err := svc.CreateUser(ctx, "carol", "carol@example.com", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser(ctx, "carol2", "CAROL@example.com", "password123")
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			t.Fatalf("expected AppError, got %v", err)
		}
		if _, ok := appErr.Fields["username"]; ok {
			t.Error("username should not be reported")
		}
		if appErr.Fields["email"] == "" {
			t.Error("email should be reported")
		}
	})

	t.Run("invalid_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, testHasher(), nil)

		_, err := svc.CreateUser(ctx, "dave", "not-an-email", "password123")
		testutil.AssertDomainError(t, err, domain.ErrInvalidEmail)
	})

	t.Run("empty_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, testHasher(), nil)

		_, err := svc.CreateUser(ctx, "erin", "erin@example.com", "")
		testutil.AssertAppError(t, err, "VALIDATION_FAILED")
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid_records_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, testHasher(), domain.FixedClock{T: testNow})
		user := testutil.CreateTestUser(t, db)

		got, err := svc.Authenticate(ctx, user.Email, testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected user %d, got %d", user.ID, got.ID)
		}

		var stored models.User
		testutil.AssertNoError(t, db.First(&stored, user.ID).Error)
		if stored.LastLoginAt == nil || !stored.LastLoginAt.Equal(testNow) {
			t.Errorf("expected last login %s, got %v", testNow, stored.LastLoginAt)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, testHasher(), nil)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Authenticate(ctx, user.Email, "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, testHasher(), nil)

		_, err := svc.Authenticate(ctx, "nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("deactivated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, testHasher(), nil)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, svc.DeactivateUser(ctx, user.ID))

		_, err := svc.Authenticate(ctx, user.Email, testutil.TestPassword)
		testutil.AssertAppError(t, err, "ACCOUNT_DEACTIVATED")
	})
}

func TestGetUserByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db, testHasher(), nil)
	user := testutil.CreateTestUser(t, db)

	got, err := svc.GetUserByID(context.Background(), user.ID)
	testutil.AssertNoError(t, err)
	if got.Username != user.Username {
		t.Errorf("expected %s, got %s", user.Username, got.Username)
	}

	_, err = svc.GetUserByID(context.Background(), 99999)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}
