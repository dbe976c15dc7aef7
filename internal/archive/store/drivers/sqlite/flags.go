package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mc-mysterria/archive-forum/internal/archive/store"
)

type flagsRepo struct {
	db *sql.DB
}

func (r *flagsRepo) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM flags WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}

	return value, nil
}

func (r *flagsRepo) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO flags (key, value, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET
		   value = excluded.value,
		   updated_at = excluded.updated_at`,
		key, value, now,
	)
	return err
}

func (r *flagsRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM flags WHERE key = ?`, key)
	return err
}
