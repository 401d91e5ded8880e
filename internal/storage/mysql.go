package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// MySQL stores values in the kv_store table created by database.Migrate.
type MySQL struct {
	db *sql.DB
}

func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: db}
}

func (s *MySQL) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `SELECT v FROM kv_store WHERE k = ?`
	var value []byte
	if err := s.db.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get kv %s: %w", key, err)
	}
	return value, true, nil
}

func (s *MySQL) Set(ctx context.Context, key string, value []byte) error {
	const query = `
INSERT INTO kv_store (k, v) VALUES (?, ?)
ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("set kv %s: %w", key, err)
	}
	return nil
}

func (s *MySQL) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM kv_store WHERE k = ?`
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete kv %s: %w", key, err)
	}
	return nil
}
