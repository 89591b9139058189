package services

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"budgettracker/internal/auth"
)

var testNow = time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)

func testHasher() auth.PasswordHasher {
	return &auth.BcryptHasher{Cost: bcrypt.MinCost}
}

func testJWT() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", "budgettracker-test", "tests", 15*time.Minute, nil)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}
