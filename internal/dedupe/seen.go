package dedupe

import (
	"time"
)

// SeenSet is the in-memory view of previously reported fingerprints.
// Loaded once at pipeline start, mutated only through MarkSeen, and
// persisted atomically at run end by the store.
type SeenSet struct {
	entries map[string]time.Time
	added   map[string]time.Time
}

func NewSeenSet(entries map[string]time.Time) *SeenSet {
	if entries == nil {
		entries = make(map[string]time.Time)
	}
	return &SeenSet{
		entries: entries,
		added:   make(map[string]time.Time),
	}
}

// IsNew is a pure lookup.
func (s *SeenSet) IsNew(fingerprint string) bool {
	_, ok := s.entries[fingerprint]
	return !ok
}

// MarkSeen records a fingerprint with its first-seen timestamp.
// Marking an already-seen fingerprint is a no-op, so the original
// first-seen time survives repeated runs.
func (s *SeenSet) MarkSeen(fingerprint string, ts time.Time) {
	if _, ok := s.entries[fingerprint]; ok {
		return
	}
	s.entries[fingerprint] = ts
	s.added[fingerprint] = ts
}

// Added returns the fingerprints marked during this run, for the store
// to persist without rewriting the whole set.
func (s *SeenSet) Added() map[string]time.Time {
	return s.added
}

func (s *SeenSet) Len() int { return len(s.entries) }
