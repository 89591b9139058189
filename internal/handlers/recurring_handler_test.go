package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"budgettracker/internal/domain"
	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
	"budgettracker/internal/services"
)

// --- mock recurring service ---

type mockRecurringService struct {
	createRecurringFn     func(userID uint, in services.RecurringInput) (*models.RecurringTransaction, error)
	getRecurringFn        func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringTransaction], error)
	getRecurringByIDFn    func(userID, recurringID uint) (*models.RecurringTransaction, error)
	deactivateRecurringFn func(userID, recurringID uint) (*models.RecurringTransaction, error)
	reactivateRecurringFn func(userID, recurringID uint) (*models.RecurringTransaction, error)
	deleteRecurringFn     func(userID, recurringID uint) error
	processMonthFn        func(month domain.MonthKey) (*services.ProcessResult, error)
}

func (m *mockRecurringService) CreateRecurring(_ context.Context, userID uint, in services.RecurringInput) (*models.RecurringTransaction, error) {
	if m.createRecurringFn != nil {
		return m.createRecurringFn(userID, in)
	}
	return &models.RecurringTransaction{}, nil
}

func (m *mockRecurringService) GetRecurring(_ context.Context, userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringTransaction], error) {
	if m.getRecurringFn != nil {
		return m.getRecurringFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.RecurringTransaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockRecurringService) GetRecurringByID(_ context.Context, userID, recurringID uint) (*models.RecurringTransaction, error) {
	if m.getRecurringByIDFn != nil {
		return m.getRecurringByIDFn(userID, recurringID)
	}
	return &models.RecurringTransaction{}, nil
}

func (m *mockRecurringService) DeactivateRecurring(_ context.Context, userID, recurringID uint) (*models.RecurringTransaction, error) {
	if m.deactivateRecurringFn != nil {
		return m.deactivateRecurringFn(userID, recurringID)
	}
	return &models.RecurringTransaction{}, nil
}

func (m *mockRecurringService) ReactivateRecurring(_ context.Context, userID, recurringID uint) (*models.RecurringTransaction, error) {
	if m.reactivateRecurringFn != nil {
		return m.reactivateRecurringFn(userID, recurringID)
	}
	return &models.RecurringTransaction{IsActive: true}, nil
}

func (m *mockRecurringService) DeleteRecurring(_ context.Context, userID, recurringID uint) error {
	if m.deleteRecurringFn != nil {
		return m.deleteRecurringFn(userID, recurringID)
	}
	return nil
}

func (m *mockRecurringService) ProcessMonth(_ context.Context, month domain.MonthKey) (*services.ProcessResult, error) {
	if m.processMonthFn != nil {
		return m.processMonthFn(month)
	}
	return &services.ProcessResult{Month: month}, nil
}

var _ services.RecurringServicer = (*mockRecurringService)(nil)

var recurringClock = domain.FixedClock{T: time.Date(2026, 5, 1, 0, 5, 0, 0, time.UTC)}

func setupRecurringRouter(handler *RecurringHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/recurring", handler.CreateRecurring)
	auth.GET("/recurring", handler.GetRecurring)
	auth.GET("/recurring/:id", handler.GetRecurringByID)
	auth.POST("/recurring/:id/deactivate", handler.DeactivateRecurring)
	auth.POST("/recurring/:id/reactivate", handler.ReactivateRecurring)
	auth.DELETE("/recurring/:id", handler.DeleteRecurring)
	r.POST("/internal/recurring/process", handler.ProcessMonth)
	return r
}

func TestRecurringHandler_CreateRecurring(t *testing.T) {
	t.Run("builds fixed term input", func(t *testing.T) {
		var got services.RecurringInput
		svc := &mockRecurringService{
			createRecurringFn: func(_ uint, in services.RecurringInput) (*models.RecurringTransaction, error) {
				got = in
				return &models.RecurringTransaction{Base: models.Base{ID: 3}, IsActive: true}, nil
			},
		}
		handler := NewRecurringHandler(svc, &mockAuditService{}, recurringClock)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/recurring",
			`{"category_id":4,"amount":"9.99","type":"Expense","description":"Streaming","frequency":"Quarterly","start_date":"2026-01-31","end_date":"2026-12-31"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Frequency != domain.FrequencyQuarterly || got.Type != domain.TransactionTypeExpense {
			t.Errorf("unexpected input: %+v", got)
		}
		if got.EndDate == nil || got.EndDate.Month() != time.December {
			t.Errorf("expected end date, got %v", got.EndDate)
		}
	})

	t.Run("defaults to monthly without end", func(t *testing.T) {
		var got services.RecurringInput
		svc := &mockRecurringService{
			createRecurringFn: func(_ uint, in services.RecurringInput) (*models.RecurringTransaction, error) {
				got = in
				return &models.RecurringTransaction{}, nil
			},
		}
		handler := NewRecurringHandler(svc, &mockAuditService{}, recurringClock)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/recurring",
			`{"category_id":4,"amount":"10","type":"Expense","description":"Gym","start_date":"2026-01-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Frequency != domain.FrequencyMonthly || got.EndDate != nil {
			t.Errorf("unexpected input: %+v", got)
		}
	})

	t.Run("returns 400 on unknown frequency", func(t *testing.T) {
		handler := NewRecurringHandler(&mockRecurringService{}, &mockAuditService{}, recurringClock)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/recurring",
			`{"category_id":4,"amount":"10","type":"Expense","description":"Gym","frequency":"Weekly","start_date":"2026-01-01"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if _, ok := errorFields(t, parseJSON(t, rec))["frequency"]; !ok {
			t.Error("expected frequency field error")
		}
	})

	t.Run("returns 422 on inverted range", func(t *testing.T) {
		svc := &mockRecurringService{
			createRecurringFn: func(_ uint, _ services.RecurringInput) (*models.RecurringTransaction, error) {
				return nil, domain.ErrInvalidDateRange
			},
		}
		handler := NewRecurringHandler(svc, &mockAuditService{}, recurringClock)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/recurring",
			`{"category_id":4,"amount":"10","type":"Expense","description":"Gym","start_date":"2026-05-01","end_date":"2026-01-01"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_DATE_RANGE")
	})
}

func TestRecurringHandler_Toggle(t *testing.T) {
	t.Run("deactivate", func(t *testing.T) {
		var gotID uint
		svc := &mockRecurringService{
			deactivateRecurringFn: func(_, recurringID uint) (*models.RecurringTransaction, error) {
				gotID = recurringID
				return &models.RecurringTransaction{}, nil
			},
		}
		handler := NewRecurringHandler(svc, &mockAuditService{}, recurringClock)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/recurring/8/deactivate", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotID != 8 {
			t.Errorf("expected id 8, got %d", gotID)
		}
	})

	t.Run("reactivate forbidden", func(t *testing.T) {
		svc := &mockRecurringService{
			reactivateRecurringFn: func(_, _ uint) (*models.RecurringTransaction, error) {
				return nil, apperrors.ErrForbidden
			},
		}
		handler := NewRecurringHandler(svc, &mockAuditService{}, recurringClock)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/recurring/8/reactivate", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}

func TestRecurringHandler_DeleteRecurring(t *testing.T) {
	t.Run("returns 404", func(t *testing.T) {
		svc := &mockRecurringService{
			deleteRecurringFn: func(_, _ uint) error { return apperrors.ErrRecurringNotFound },
		}
		handler := NewRecurringHandler(svc, &mockAuditService{}, recurringClock)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "DELETE", "/recurring/8", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestRecurringHandler_ProcessMonth(t *testing.T) {
	t.Run("defaults to current month", func(t *testing.T) {
		var got domain.MonthKey
		svc := &mockRecurringService{
			processMonthFn: func(month domain.MonthKey) (*services.ProcessResult, error) {
				got = month
				return &services.ProcessResult{Month: month, Considered: 2, Created: 2}, nil
			},
		}
		handler := NewRecurringHandler(svc, &mockAuditService{}, recurringClock)
		r := setupRecurringRouter(handler)

		rec := doRequest(r, "POST", "/internal/recurring/process", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got != "2026-05" {
			t.Errorf("expected 2026-05, got %s", got)
		}
		if parseJSON(t, rec)["created"] != float64(2) {
			t.Error("expected created 2")
		}
	})

	t.Run("explicit month", func(t *testing.T) {
		var got domain.MonthKey
		svc := &mockRecurringService{
			processMonthFn: func(month domain.MonthKey) (*services.ProcessResult, error) {
				got = month
				return &services.ProcessResult{Month: month}, nil
			},
		}
		handler := NewRecurringHandler(svc, &mockAuditService{}, recurringClock)
		r := setupRecurringRouter(handler)

		doRequest(r, "POST", "/internal/recurring/process?month=2026-02", "")

		if got != "2026-02" {
			t.Errorf("expected 2026-02, got %s", got)
		}
	})
}
