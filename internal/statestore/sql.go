// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package statestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"webtg/internal/database"
)

// SQLStore persists entries in the state_entries table created by
// database.Migrate. It works on SQLite and PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLStore creates a store on a migrated connection.
func NewSQLStore(db *sql.DB, dialect database.Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM state_entries WHERE key = "+s.dialect.Placeholder(1), key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get state %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	q := fmt.Sprintf(`INSERT INTO state_entries (key, value, updated_at)
		VALUES (%s, %s, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.dialect.Placeholder(1), s.dialect.Placeholder(2))
	if _, err := s.db.ExecContext(ctx, q, key, string(value)); err != nil {
		return fmt.Errorf("set state %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM state_entries WHERE key = "+s.dialect.Placeholder(1), key)
	if err != nil {
		return fmt.Errorf("delete state %s: %w", key, err)
	}
	return nil
}
