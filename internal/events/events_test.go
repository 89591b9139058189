package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = r.Publish(context.Background(), New(RecurringMaterialized, at, map[string]any{"recurring_id": 1}))
	_ = r.Publish(context.Background(), New(RefreshTokenReuse, at, nil))
	_ = r.Publish(context.Background(), New(RecurringMaterialized, at, map[string]any{"recurring_id": 2}))

	if got := len(r.Events()); got != 3 {
		t.Fatalf("expected 3 events, got %d", got)
	}
	if got := len(r.OfType(RecurringMaterialized)); got != 2 {
		t.Errorf("expected 2 materialized events, got %d", got)
	}
}

func TestNop(t *testing.T) {
	if err := (Nop{}).Publish(context.Background(), Event{Type: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEncode(t *testing.T) {
	at := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	body, err := encode(New(RecurringMaterialized, at, map[string]any{"month": "2026-02"}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["type"] != RecurringMaterialized {
		t.Errorf("unexpected type %v", decoded["type"])
	}
	payload, _ := decoded["payload"].(map[string]any)
	if payload["month"] != "2026-02" {
		t.Errorf("unexpected payload %v", payload)
	}
}
