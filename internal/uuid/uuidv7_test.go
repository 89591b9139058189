package uuid

import (
	"testing"

	googleuuid "github.com/google/uuid"
)

func TestNew(t *testing.T) {
	a, b := New(), New()
	if a == b {
		t.Fatal("expected distinct ids")
	}
	parsed, err := googleuuid.Parse(a)
	if err != nil {
		t.Fatalf("not a uuid: %v", err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected version 7, got %d", parsed.Version())
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid(New()) {
		t.Error("generated id should be valid")
	}
	if IsValid("not-a-uuid") {
		t.Error("garbage should be invalid")
	}
}
