package server

import (
	"context"
	"testing"

	"budgettracker/internal/events"
	"budgettracker/internal/lock"
)

func TestOpenLocker_FallsBackToLocal(t *testing.T) {
	locker, closeFn, err := OpenLocker(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()
	if _, ok := locker.(*lock.LocalLocker); !ok {
		t.Errorf("expected *lock.LocalLocker, got %T", locker)
	}
}

func TestOpenPublisher_FallsBackToNop(t *testing.T) {
	pub, closeFn, err := OpenPublisher(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()
	if _, ok := pub.(events.Nop); !ok {
		t.Errorf("expected events.Nop, got %T", pub)
	}
}
