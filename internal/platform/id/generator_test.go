package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewIDIsVersion7AndOrdered(t *testing.T) {
	gen := NewUUIDGenerator()

	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}

	parsed, err := uuid.Parse(first)
	if err != nil {
		t.Fatalf("parse id %q: %v", first, err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("unexpected uuid version: %d", parsed.Version())
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
	if second < first {
		t.Fatalf("expected time-ordered ids: %q then %q", first, second)
	}
}
