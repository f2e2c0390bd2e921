package seenstore

import (
	"context"
	"fmt"
	"time"

	"jobscout/internal/dedupe"
)

// Load reads the full seen set into memory. Called once per run.
func (s *Store) Load(ctx context.Context) (*dedupe.SeenSet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT fingerprint, first_seen FROM seen_jobs;`)
	if err != nil {
		return nil, fmt.Errorf("load seen set: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]time.Time)
	for rows.Next() {
		var fp, firstSeen string
		if err := rows.Scan(&fp, &firstSeen); err != nil {
			return nil, fmt.Errorf("load seen set: %w", err)
		}
		t, err := time.Parse(time.RFC3339, firstSeen)
		if err != nil {
			t = time.Now().UTC()
		}
		entries[fp] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load seen set: %w", err)
	}
	return dedupe.NewSeenSet(entries), nil
}

// Save persists the fingerprints added during this run in one
// transaction. INSERT OR IGNORE keeps MarkSeen idempotent at the
// storage layer too.
func (s *Store) Save(ctx context.Context, set *dedupe.SeenSet, reported int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save seen set: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for fp, ts := range set.Added() {
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO seen_jobs(fingerprint, first_seen) VALUES (?, ?);`,
			fp, ts.UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("save seen set: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE run_stats
SET total_reported = total_reported + ?, last_run = ?
WHERE id = 1;`,
		reported, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save run stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save seen set: %w", err)
	}
	return nil
}

// Clear wipes the seen set so every current posting resurfaces as new
// on the next run.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM seen_jobs;`); err != nil {
		return fmt.Errorf("clear seen set: %w", err)
	}
	return nil
}

// Prune drops entries older than the cutoff. Fingerprints that fall
// out may be re-reported if the posting is still live; 30 days is the
// operating assumption for posting lifetime.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `DELETE FROM seen_jobs WHERE first_seen < ?;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune seen set: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type Stats struct {
	TotalSeen     int
	TotalReported int
	LastRun       string
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seen_jobs;`).Scan(&st.TotalSeen); err != nil {
		return st, fmt.Errorf("seen stats: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `
SELECT total_reported, last_run FROM run_stats WHERE id = 1;`).Scan(&st.TotalReported, &st.LastRun); err != nil {
		return st, fmt.Errorf("seen stats: %w", err)
	}
	return st, nil
}
