/*
Package sqlite persists fetched working-day calendars in SQLite.

One row per calendar year holds the raw day string exactly as the calendar
source returned it, plus the time it was fetched. The calendar package reads
through this store so that a restarted process does not refetch years it has
already seen.

USAGE:
  store, err := sqlite.New("./data/calendar.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  source := calendar.NewPersistentSource(store, upstream, 0, logger)
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// YearRecord is a stored calendar year
type YearRecord struct {
	Year      int
	Days      string
	FetchedAt time.Time
}

// Store implements calendar.YearStore using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calendar_years (
		year INTEGER PRIMARY KEY,
		days TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// LoadYear returns the stored day string of a year.
// found is false when the year has never been saved.
func (s *Store) LoadYear(ctx context.Context, year int) (string, time.Time, bool, error) {
	var days, fetchedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT days, fetched_at FROM calendar_years WHERE year = ?`, year,
	).Scan(&days, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, false, nil
	}
	if err != nil {
		return "", time.Time{}, false, fmt.Errorf("failed to load year %d: %w", year, err)
	}

	at, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return "", time.Time{}, false, fmt.Errorf("failed to parse fetched_at of year %d: %w", year, err)
	}

	return days, at, true, nil
}

// SaveYear inserts or replaces the stored day string of a year.
func (s *Store) SaveYear(ctx context.Context, year int, days string, fetchedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendar_years (year, days, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(year) DO UPDATE SET days = excluded.days, fetched_at = excluded.fetched_at`,
		year, days, fetchedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save year %d: %w", year, err)
	}
	return nil
}

// DeleteYear removes a stored year. Deleting a missing year is not an error.
func (s *Store) DeleteYear(ctx context.Context, year int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM calendar_years WHERE year = ?`, year); err != nil {
		return fmt.Errorf("failed to delete year %d: %w", year, err)
	}
	return nil
}

// ListYears returns all stored years in ascending order.
func (s *Store) ListYears(ctx context.Context) ([]YearRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT year, days, fetched_at FROM calendar_years ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}
	defer rows.Close()

	var records []YearRecord
	for rows.Next() {
		var r YearRecord
		var fetchedAt string
		if err := rows.Scan(&r.Year, &r.Days, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan year: %w", err)
		}
		if r.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to parse fetched_at of year %d: %w", r.Year, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
