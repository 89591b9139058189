package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"budgettracker/internal/domain"
	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn  func(userID uint, in services.TransactionInput) (*services.TransactionView, error)
	updateTransactionFn  func(userID, transactionID uint, in services.TransactionInput) (*services.TransactionView, error)
	deleteTransactionFn  func(userID, transactionID uint) error
	getTransactionsFn    func(userID uint, filter services.TransactionFilter) ([]services.TransactionView, error)
	getTransactionByIDFn func(userID, transactionID uint) (*services.TransactionView, error)
}

func (m *mockTransactionService) CreateTransaction(_ context.Context, userID uint, in services.TransactionInput) (*services.TransactionView, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, in)
	}
	return &services.TransactionView{}, nil
}

func (m *mockTransactionService) UpdateTransaction(_ context.Context, userID, transactionID uint, in services.TransactionInput) (*services.TransactionView, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, in)
	}
	return &services.TransactionView{}, nil
}

func (m *mockTransactionService) DeleteTransaction(_ context.Context, userID, transactionID uint) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) GetTransactions(_ context.Context, userID uint, filter services.TransactionFilter) ([]services.TransactionView, error) {
	if m.getTransactionsFn != nil {
		return m.getTransactionsFn(userID, filter)
	}
	return []services.TransactionView{}, nil
}

func (m *mockTransactionService) GetTransactionByID(_ context.Context, userID, transactionID uint) (*services.TransactionView, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &services.TransactionView{}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetTransactions)
	auth.GET("/transactions/:id", handler.GetTransactionByID)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.TransactionInput
		txSvc := &mockTransactionService{
			createTransactionFn: func(userID uint, in services.TransactionInput) (*services.TransactionView, error) {
				got = in
				return &services.TransactionView{ID: 5, Amount: in.Amount, SignedAmount: in.Amount.Neg()}, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":4,"amount":"50.25","type":"Expense","description":"Groceries","date":"2026-01-15"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Type != domain.TransactionTypeExpense || !got.Amount.Equal(decimal.RequireFromString("50.25")) {
			t.Errorf("unexpected input: %+v", got)
		}
		if !got.Date.Equal(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected date: %s", got.Date)
		}
		view := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if view["signed_amount"] != "-50.25" {
			t.Errorf("expected signed amount -50.25, got %v", view["signed_amount"])
		}
	})

	t.Run("accepts numeric amount and RFC3339 date", func(t *testing.T) {
		var got services.TransactionInput
		txSvc := &mockTransactionService{
			createTransactionFn: func(_ uint, in services.TransactionInput) (*services.TransactionView, error) {
				got = in
				return &services.TransactionView{ID: 1}, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":1,"amount":5000,"type":"income","description":"Salary","date":"2026-01-01T08:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Amount.Equal(decimal.NewFromInt(5000)) || got.Date.Hour() != 8 {
			t.Errorf("unexpected input: %+v", got)
		}
	})

	t.Run("returns 422 on unknown type", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":4,"amount":"1","type":"Transfer","description":"x","date":"2026-01-15"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_TRANSACTION_TYPE")
	})

	t.Run("returns 422 from ledger rules", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(_ uint, _ services.TransactionInput) (*services.TransactionView, error) {
				return nil, domain.ErrInvalidAmount
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":4,"amount":"0","type":"Expense","description":"x","date":"2026-01-15"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_AMOUNT")
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions",
			`{"category_id":4,"amount":"1","type":"Expense","description":"x","date":"15/01/2026"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 with missing category", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "POST", "/transactions", `{"amount":"1","type":"Expense","date":"2026-01-15"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if _, ok := errorFields(t, parseJSON(t, rec))["category_id"]; !ok {
			t.Error("expected category_id field error")
		}
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("passes path id", func(t *testing.T) {
		var gotID uint
		txSvc := &mockTransactionService{
			updateTransactionFn: func(_, transactionID uint, _ services.TransactionInput) (*services.TransactionView, error) {
				gotID = transactionID
				return &services.TransactionView{ID: transactionID}, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PUT", "/transactions/17",
			`{"category_id":4,"amount":"10","type":"Expense","description":"x","date":"2026-01-15"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != 17 {
			t.Errorf("expected id 17, got %d", gotID)
		}
	})

	t.Run("returns 422 for generated transactions", func(t *testing.T) {
		txSvc := &mockTransactionService{
			updateTransactionFn: func(_, _ uint, _ services.TransactionInput) (*services.TransactionView, error) {
				return nil, domain.ErrRecurringTransactionImmutable
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PUT", "/transactions/3",
			`{"category_id":4,"amount":"10","type":"Expense","description":"x","date":"2026-01-15"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "RECURRING_TRANSACTION_IMMUTABLE")
	})

	t.Run("returns 400 on bad id", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "PUT", "/transactions/abc", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 204", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "DELETE", "/transactions/1", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("returns 403 for other owners", func(t *testing.T) {
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(_, _ uint) error { return apperrors.ErrForbidden },
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "DELETE", "/transactions/1", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("parses filters", func(t *testing.T) {
		var got services.TransactionFilter
		txSvc := &mockTransactionService{
			getTransactionsFn: func(_ uint, filter services.TransactionFilter) ([]services.TransactionView, error) {
				got = filter
				return []services.TransactionView{{ID: 1}, {ID: 2}}, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?month=2026-01&category_id=4&type=Expense", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Month == nil || *got.Month != "2026-01" {
			t.Errorf("unexpected month filter: %v", got.Month)
		}
		if got.CategoryID == nil || *got.CategoryID != 4 {
			t.Errorf("unexpected category filter: %v", got.CategoryID)
		}
		if got.Type == nil || *got.Type != domain.TransactionTypeExpense {
			t.Errorf("unexpected type filter: %v", got.Type)
		}
		if parseJSON(t, rec)["count"] != float64(2) {
			t.Error("expected count 2")
		}
	})

	t.Run("no filters", func(t *testing.T) {
		var got services.TransactionFilter
		txSvc := &mockTransactionService{
			getTransactionsFn: func(_ uint, filter services.TransactionFilter) ([]services.TransactionView, error) {
				got = filter
				return nil, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.Month != nil || got.CategoryID != nil || got.Type != nil {
			t.Errorf("expected empty filter, got %+v", got)
		}
	})

	t.Run("returns 400 on bad month", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions?month=2026-13", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if _, ok := errorFields(t, parseJSON(t, rec))["month"]; !ok {
			t.Error("expected month field error")
		}
	})
}

func TestTransactionHandler_GetTransactionByID(t *testing.T) {
	t.Run("returns 404", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getTransactionByIDFn: func(_, _ uint) (*services.TransactionView, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler)

		rec := doRequest(r, "GET", "/transactions/99", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}
