package seenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// Store persists the seen set across runs. The flock guards against
// overlapping invocations: the schema is single-writer and "new"
// classification is only correct against a quiescent prior state.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
}

var ErrLocked = errors.New("seen store is locked by another run")

func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("seen store mkdir: %w", err)
	}

	lock := flock.New(filepath.Join(dataDir, "jobscout.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("seen store lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	// modernc sqlite DSN: file:foo.db?_pragma=busy_timeout(5000)
	dbPath := filepath.Join(dataDir, "jobscout.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbPath)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("seen store open: %w", err)
	}
	pool.SetMaxOpenConns(1) // sqlite wants a single writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("seen store ping: %w", err)
	}

	if err := migrate(pool); err != nil {
		_ = pool.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("seen store migrate: %w", err)
	}

	return &Store{db: pool, lock: lock}, nil
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var first error
	if s.db != nil {
		first = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS seen_jobs (
  fingerprint TEXT PRIMARY KEY,
  first_seen TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_seen_jobs_first_seen
ON seen_jobs(first_seen);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS run_stats (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  total_reported INTEGER NOT NULL DEFAULT 0,
  last_run TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT OR IGNORE INTO run_stats(id, total_reported) VALUES (1, 0);`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}
