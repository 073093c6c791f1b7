// Package sqlite implements the store contract against an in-process
// SQLite engine (modernc.org/sqlite, pure Go).
//
// The engine runs on a single in-memory connection; durability comes
// from a debounced background flush that serializes the whole store to
// one binary image via VACUUM INTO. Write calls return once the engine
// has committed — they never wait for the flush. A crash between commit
// and flush can lose the most recent burst of writes; that durability
// gap is accepted for this backend only.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Options configures the embedded store.
type Options struct {
	// ImagePath is where the binary image is flushed. Empty disables
	// persistence entirely (useful for tests).
	ImagePath string

	// FlushDebounce is the quiet period before a dirty store is
	// flushed. Zero means DefaultFlushDebounce.
	FlushDebounce time.Duration

	Logger *zap.Logger
}

// DefaultFlushDebounce coalesces write bursts into one flush.
const DefaultFlushDebounce = 2 * time.Second

// Store implements store.Store against an in-process SQLite engine.
// All calls are serialized on one connection, which makes the store
// effectively single-writer within the process.
type Store struct {
	db      *sql.DB
	logger  *zap.Logger
	flusher *flusher

	mu      sync.Mutex // guards tx and txDirty
	tx      *sql.Tx
	txDirty bool
}

// New opens the in-memory engine, applies the schema, and restores
// from the image at opts.ImagePath if one exists.
func New(opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Every connection to :memory: is a distinct database, so the pool
	// must stay at exactly one connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(0)

	s := &Store{db: db, logger: logger}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if opts.ImagePath != "" {
		if err := s.restore(opts.ImagePath); err != nil {
			db.Close()
			return nil, fmt.Errorf("restore image: %w", err)
		}
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if opts.ImagePath != "" {
		debounce := opts.FlushDebounce
		if debounce <= 0 {
			debounce = DefaultFlushDebounce
		}
		s.flusher = newFlusher(db, opts.ImagePath, debounce, logger)
	}

	return s, nil
}

// dbtx abstracts over *sql.DB and *sql.Tx so every operation runs
// against the open transaction when the caller started one.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q returns the current execution target: the open transaction if any,
// otherwise the database itself.
func (s *Store) q() dbtx {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// markDirty schedules a flush for a committed mutation. Mutations made
// inside an open transaction are deferred until Commit.
func (s *Store) markDirty() {
	s.mu.Lock()
	if s.tx != nil {
		s.txDirty = true
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	if s.flusher != nil {
		s.flusher.Mark()
	}
}

// Begin starts an explicit transaction. Nested transactions are not
// supported; callers bracket multi-table writes with Begin/Commit.
func (s *Store) Begin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx != nil {
		return fmt.Errorf("begin: transaction already open")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	s.tx = tx
	s.txDirty = false
	return nil
}

// Commit commits the open transaction and schedules a flush if any
// mutation happened inside it.
func (s *Store) Commit(ctx context.Context) error {
	s.mu.Lock()
	tx := s.tx
	dirty := s.txDirty
	s.tx = nil
	s.txDirty = false
	s.mu.Unlock()

	if tx == nil {
		return fmt.Errorf("commit: no open transaction")
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	if dirty && s.flusher != nil {
		s.flusher.Mark()
	}
	return nil
}

// Rollback discards the open transaction. Rolling back with no open
// transaction is a no-op so it can sit safely in a defer.
func (s *Store) Rollback(ctx context.Context) error {
	s.mu.Lock()
	tx := s.tx
	s.tx = nil
	s.txDirty = false
	s.mu.Unlock()

	if tx == nil {
		return nil
	}
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// ExecuteRawQuery runs an arbitrary statement for administrative
// introspection and returns the result rows as generic maps.
func (s *Store) ExecuteRawQuery(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := s.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("raw query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("raw query columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("raw query scan: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = values[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Stats returns row counts per major table.
func (s *Store) Stats(ctx context.Context) (map[string]int64, error) {
	stats := make(map[string]int64, len(tableOrder))
	for _, table := range tableOrder {
		var n int64
		if err := s.q().QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		stats[table] = n
	}
	return stats, nil
}

// Close stops the flusher (performing one final flush) and closes the
// engine. Any open transaction is rolled back.
func (s *Store) Close() error {
	s.Rollback(context.Background())
	if s.flusher != nil {
		s.flusher.Close()
	}
	return s.db.Close()
}
