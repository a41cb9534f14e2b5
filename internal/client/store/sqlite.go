package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkarpov/reelmark/internal/dbx"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the credential in a single-row key/value table inside a
// sqlite file. Several processes opening the same file share one slot, which
// is what makes cross-tab synchronization observable.
type SQLiteStore struct {
	db dbx.DBTX
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenDB opens (and initializes if needed) the sqlite file backing the slot.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store open error: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS slots (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store init error: %w", err)
	}

	return db, nil
}

func (s *SQLiteStore) Get(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, SlotKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential slot: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, credential string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, SlotKey, credential)
	if err != nil {
		return fmt.Errorf("failed to write credential slot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, SlotKey)
	if err != nil {
		return fmt.Errorf("failed to clear credential slot: %w", err)
	}
	return nil
}
