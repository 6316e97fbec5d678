package testfixtures

import "testing"

func TestIDGeneratorSequence(t *testing.T) {
	gen := NewIDGenerator("room")
	if got := gen.Next(); got != "room-1" {
		t.Fatalf("expected room-1, got %q", got)
	}
	if got := gen.Next(); got != "room-2" {
		t.Fatalf("expected room-2, got %q", got)
	}

	gen.Reset()
	if got := gen.Next(); got != "room-1" {
		t.Fatalf("expected room-1 after reset, got %q", got)
	}
}

func TestIDGeneratorDefaultPrefix(t *testing.T) {
	gen := NewIDGenerator("")
	if got := gen.Next(); got != "id-1" {
		t.Fatalf("expected id-1, got %q", got)
	}
}
