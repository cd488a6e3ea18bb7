package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLKV stores CRM keys in the crm_kv table. It works against PostgreSQL and SQLite.
type SQLKV struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLKV constructs a SQL-backed store. The schema must already exist.
func NewSQLKV(db *sqlx.DB) *SQLKV {
	return &SQLKV{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SQLKV) Get(ctx context.Context, key string) (string, error) {
	query := r.db.Rebind(`SELECT item_value FROM crm_kv WHERE item_key = ?`)
	var value string
	if err := r.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("sql get %s: %w", key, err)
	}
	return value, nil
}

func (r *SQLKV) Set(ctx context.Context, key, value string) error {
	query := r.db.Rebind(`INSERT INTO crm_kv (item_key, item_value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at`)
	if _, err := r.db.ExecContext(ctx, query, key, value, r.now()); err != nil {
		return fmt.Errorf("sql set %s: %w", key, err)
	}
	return nil
}

func (r *SQLKV) Delete(ctx context.Context, key string) error {
	query := r.db.Rebind(`DELETE FROM crm_kv WHERE item_key = ?`)
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("sql delete %s: %w", key, err)
	}
	return nil
}
