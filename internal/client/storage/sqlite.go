package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"keepsafe/internal/dbx"

	_ "modernc.org/sqlite"
)

// SQLiteStorage implements DurableStorage on a single kv table, using a DBTX
// (either *sql.DB or *sql.Tx).
type SQLiteStorage struct {
	db dbx.DBTX
}

// NewSQLiteStorage returns a SQLiteStorage bound to the given DBTX. The
// schema must already exist (see Open).
func NewSQLiteStorage(db dbx.DBTX) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

// Open opens (creating if needed) the device database at path and ensures
// the kv schema. Use ":memory:" for throwaway stores.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open device db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv_store (
		k TEXT PRIMARY KEY,
		v BLOB NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ensure kv schema: %w", err)
	}

	return db, nil
}

func (s *SQLiteStorage) GetItem(ctx context.Context, key string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, `SELECT v FROM kv_store WHERE k = ?`, key)

	var v []byte
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return v, nil
}

func (s *SQLiteStorage) SetItem(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO kv_store (k, v, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) RemoveItem(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE k = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}
