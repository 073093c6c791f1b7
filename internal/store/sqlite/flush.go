package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// flusher serializes the in-memory engine to one binary image on disk.
// Marks are coalesced: a burst of writes produces a single flush after
// the debounce window goes quiet. Write paths never wait on it.
type flusher struct {
	db       *sql.DB
	path     string
	debounce time.Duration
	logger   *zap.Logger

	kick chan struct{}
	quit chan struct{}
	done chan struct{}
}

func newFlusher(db *sql.DB, path string, debounce time.Duration, logger *zap.Logger) *flusher {
	f := &flusher{
		db:       db,
		path:     path,
		debounce: debounce,
		logger:   logger,
		kick:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go f.run()
	return f
}

// Mark records that the store is dirty. Never blocks.
func (f *flusher) Mark() {
	select {
	case f.kick <- struct{}{}:
	default:
	}
}

func (f *flusher) run() {
	defer close(f.done)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-f.kick:
			if timer == nil {
				timer = time.NewTimer(f.debounce)
				fire = timer.C
			} else {
				timer.Reset(f.debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			if err := f.flush(); err != nil {
				f.logger.Warn("image flush failed", zap.String("path", f.path), zap.Error(err))
			}
		case <-f.quit:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Close stops the background loop and performs one final flush, so a
// clean shutdown never loses committed writes.
func (f *flusher) Close() {
	close(f.quit)
	<-f.done
	if err := f.flush(); err != nil {
		f.logger.Error("final image flush failed", zap.String("path", f.path), zap.Error(err))
	}
}

// flush writes the whole store to a temp file and renames it into
// place, so readers of the image never observe a partial write.
func (f *flusher) flush() error {
	tmp := f.path + ".tmp"
	os.Remove(tmp)

	if _, err := f.db.ExecContext(context.Background(), `VACUUM INTO ?`, tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("vacuum into: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename image: %w", err)
	}
	return nil
}

// restore copies every table from an existing image into the in-memory
// engine. Runs before foreign keys are enabled; tableOrder keeps
// parents ahead of their children anyway.
func (s *Store) restore(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if _, err := s.db.Exec(`ATTACH DATABASE ? AS snapshot`, path); err != nil {
		return fmt.Errorf("attach snapshot: %w", err)
	}
	defer s.db.Exec(`DETACH DATABASE snapshot`)

	for _, table := range tableOrder {
		var n int
		err := s.db.QueryRow(
			`SELECT COUNT(*) FROM snapshot.sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&n)
		if err != nil {
			return fmt.Errorf("inspect snapshot: %w", err)
		}
		if n == 0 {
			// Image written by an older schema; additive tables start empty.
			continue
		}
		if _, err := s.db.Exec(fmt.Sprintf(`INSERT INTO main.%s SELECT * FROM snapshot.%s`, table, table)); err != nil {
			return fmt.Errorf("copy %s: %w", table, err)
		}
	}

	s.logger.Info("restored store from image", zap.String("path", path))
	return nil
}
