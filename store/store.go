package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// ErrUnavailable indicates the store has not completed initialization.
var ErrUnavailable = errors.New("store not initialized")

const schema = `
CREATE TABLE IF NOT EXISTS memos (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp     INTEGER NOT NULL,
	duration      INTEGER NOT NULL,
	transcription TEXT NOT NULL DEFAULT '',
	enhanced_text TEXT NOT NULL DEFAULT '',
	tags          TEXT NOT NULL DEFAULT '[]',
	thoughts      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_memos_timestamp ON memos(timestamp);
`

// Store is the transactional memo store. Initialization is asynchronous:
// the schema is created in the background once per Open, and operations
// issued before it completes fail with ErrUnavailable.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	ready   atomic.Bool
	initc   chan struct{}
	initErr error // written once before initc closes
}

// DefaultPath returns the default database location under the user's
// home directory.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".voicememo", "voicememo.sqlite")
}

// Open opens the database at path and starts schema initialization in the
// background. The returned store is usable immediately; operations fail
// with ErrUnavailable until initialization completes.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
		initc:  make(chan struct{}),
	}
	go s.init()
	return s, nil
}

func (s *Store) init() {
	defer close(s.initc)

	if _, err := s.db.Exec(schema); err != nil {
		s.initErr = fmt.Errorf("create schema: %w", err)
		s.logger.Error("store initialization failed", "error", err)
		return
	}
	s.ready.Store(true)
	s.logger.Debug("store initialized")
}

// Ready reports whether initialization has completed successfully.
func (s *Store) Ready() bool {
	return s.ready.Load()
}

// WaitReady blocks until initialization finishes or ctx is done.
func (s *Store) WaitReady(ctx context.Context) error {
	select {
	case <-s.initc:
		if s.initErr != nil {
			return s.initErr
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) guard() error {
	if !s.ready.Load() {
		return ErrUnavailable
	}
	return nil
}

// Save inserts a memo and returns its assigned id. A zero Timestamp is
// defaulted to the current time. The insert either fully commits or has
// no effect.
func (s *Store) Save(ctx context.Context, m Memo) (int64, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}

	if m.Timestamp == 0 {
		m.Timestamp = time.Now().UnixMilli()
	}
	tags, err := json.Marshal(m.Enhanced.Tags)
	if err != nil {
		return 0, fmt.Errorf("encode tags: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO memos (timestamp, duration, transcription, enhanced_text, tags, thoughts)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.Timestamp, m.Duration, m.Transcription, m.Enhanced.Text, string(tags), m.Enhanced.Thoughts)
	if err != nil {
		return 0, fmt.Errorf("insert memo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("memo id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save: %w", err)
	}

	s.logger.Debug("memo saved", "id", id, "duration", m.Duration)
	return id, nil
}

// ListAll returns all memos ordered by timestamp descending. Entries with
// an id already seen during the scan are filtered, so the result never
// contains duplicates. An empty store yields an empty slice, not an error.
func (s *Store) ListAll(ctx context.Context) ([]Memo, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, duration, transcription, enhanced_text, tags, thoughts
		FROM memos
		ORDER BY timestamp DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query memos: %w", err)
	}
	defer rows.Close()

	memos := make([]Memo, 0)
	seen := make(map[int64]bool)
	for rows.Next() {
		var m Memo
		var tags string
		if err := rows.Scan(&m.ID, &m.Timestamp, &m.Duration,
			&m.Transcription, &m.Enhanced.Text, &tags, &m.Enhanced.Thoughts); err != nil {
			return nil, fmt.Errorf("scan memo: %w", err)
		}
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		if err := json.Unmarshal([]byte(tags), &m.Enhanced.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for memo %d: %w", m.ID, err)
		}
		memos = append(memos, m)
	}
	return memos, rows.Err()
}

// Delete removes the memo with the given id. Deleting a nonexistent id is
// a no-op, not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := s.guard(); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM memos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete memo %d: %w", id, err)
	}
	return nil
}
