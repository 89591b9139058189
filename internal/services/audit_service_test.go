package services

import (
	"context"
	"testing"

	"budgettracker/internal/logger"
	"budgettracker/internal/models"
	"budgettracker/internal/testutil"
)

func TestAuditService_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db)

	entries := func() []models.AuditLog {
		var out []models.AuditLog
		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).Order("id").Find(&out).Error)
		return out
	}

	t.Run("records the entry with its request id", func(t *testing.T) {
		ctx := logger.WithRequestID(context.Background(), "req-1")
		svc.Log(ctx, user.ID, "CREATE_TRANSACTION", "transaction", 9, "127.0.0.1", map[string]interface{}{"amount": "12.50"})

		got := entries()
		if len(got) != 1 {
			t.Fatalf("expected 1 audit entry, got %d", len(got))
		}
		e := got[0]
		if e.Action != "CREATE_TRANSACTION" || e.ResourceType != "transaction" || e.ResourceID != 9 {
			t.Errorf("unexpected entry: %+v", e)
		}
		if e.RequestID != "req-1" {
			t.Errorf("expected request id req-1, got %q", e.RequestID)
		}
		if e.Changes != `{"amount":"12.50"}` {
			t.Errorf("unexpected changes: %s", e.Changes)
		}
	})

	t.Run("leaves changes empty when there are none", func(t *testing.T) {
		svc.Log(context.Background(), user.ID, "DELETE_TRANSACTION", "transaction", 9, "127.0.0.1", nil)

		got := entries()
		last := got[len(got)-1]
		if last.Changes != "" || last.RequestID != "" {
			t.Errorf("expected no changes and no request id, got %+v", last)
		}
	})

	t.Run("still writes after the request is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		before := len(entries())
		svc.Log(ctx, user.ID, "LOGOUT_ALL", "user", user.ID, "127.0.0.1", map[string]interface{}{"revoked": 2})
		if len(entries()) != before+1 {
			t.Error("expected the entry to be written despite cancellation")
		}
	})
}
