package testutil

import (
	"errors"
	"testing"

	"budgettracker/internal/domain"
	apperrors "budgettracker/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDomainError checks that err resolves to the given domain rule code,
// either raw or translated into an *AppError.
func AssertDomainError(t *testing.T, err error, expected *domain.Error) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected domain error %q, got nil", expected.Code)
	}
	if !errors.Is(err, expected) {
		t.Fatalf("expected domain error %q, got %T: %v", expected.Code, err, err)
	}
}
