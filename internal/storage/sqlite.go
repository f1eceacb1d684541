package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, no CGO required
)

// TimeLayout is the format stored in the date column. Dates are TEXT and
// compare lexicographically, which for this layout matches chronological
// order.
const TimeLayout = "2006-01-02 15:04:05"

// Item is one persisted news record. Records are immutable after insert.
type Item struct {
	Title       string
	Link        string
	Date        string
	Description string
}

// Store persists accepted news items to a single SQLite file.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates the database file if needed, ensures the schema, and returns
// a ready store.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const createTable = `
CREATE TABLE IF NOT EXISTS news (
	title TEXT,
	link TEXT,
	date TEXT,
	description TEXT
)`
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Exists reports whether a record with the exact (title, link) pair is
// already stored.
func (s *Store) Exists(ctx context.Context, title, link string) (bool, error) {
	row := s.db.QueryRowContext(ctx, "SELECT 1 FROM news WHERE title = ? AND link = ? LIMIT 1", title, link)
	var one int
	err := row.Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertIfAbsent stores the item unless its (title, link) pair already
// exists, reporting whether an insert occurred. The check-then-insert pair
// relies on the single-writer orchestrator for atomicity.
func (s *Store) InsertIfAbsent(ctx context.Context, item Item) (bool, error) {
	exists, err := s.Exists(ctx, item.Title, item.Link)
	if err != nil {
		return false, fmt.Errorf("check existing: %w", err)
	}
	if exists {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO news (title, link, date, description) VALUES (?, ?, ?, ?)",
		item.Title, item.Link, item.Date, item.Description)
	if err != nil {
		return false, fmt.Errorf("insert news: %w", err)
	}
	return true, nil
}

// NewerThan returns items with date strictly after the cutoff, newest first.
func (s *Store) NewerThan(ctx context.Context, cutoff string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT title, link, date, description FROM news WHERE date > ? ORDER BY date DESC", cutoff)
	if err != nil {
		return nil, fmt.Errorf("query newer than %s: %w", cutoff, err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.Title, &item.Link, &item.Date, &item.Description); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteOlderThan removes items with date strictly before the cutoff and
// returns the number removed.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM news WHERE date < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete older than %s: %w", cutoff, err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
