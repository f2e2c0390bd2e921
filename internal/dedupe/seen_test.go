package dedupe

import (
	"testing"
	"time"
)

func TestSeenSetMarkSeenIdempotent(t *testing.T) {
	s := NewSeenSet(nil)

	first := time.Date(2026, 8, 1, 7, 0, 0, 0, time.UTC)
	later := first.Add(24 * time.Hour)

	if !s.IsNew("fp1") {
		t.Fatal("fresh set should report fp1 as new")
	}
	s.MarkSeen("fp1", first)
	if s.IsNew("fp1") {
		t.Fatal("marked fingerprint still reported new")
	}

	// re-marking keeps the original first-seen timestamp
	s.MarkSeen("fp1", later)
	if got := s.Added()["fp1"]; !got.Equal(first) {
		t.Errorf("first-seen overwritten: got %v, want %v", got, first)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestSeenSetAddedTracksOnlyThisRun(t *testing.T) {
	s := NewSeenSet(map[string]time.Time{"old": time.Now()})
	s.MarkSeen("old", time.Now()) // already persisted, no-op
	s.MarkSeen("new", time.Now())

	added := s.Added()
	if _, ok := added["old"]; ok {
		t.Error("previously persisted entry appeared in Added")
	}
	if _, ok := added["new"]; !ok {
		t.Error("new entry missing from Added")
	}
}
