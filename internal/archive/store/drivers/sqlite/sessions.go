package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mc-mysterria/archive-forum/internal/archive/domain"
	"github.com/mc-mysterria/archive-forum/internal/archive/store"
)

type sessionsRepo struct {
	db *sql.DB
}

// The session table holds at most one row (id = 1). A populated row is an
// authenticated session; no row means logged out.
func (r *sessionsRepo) Get(ctx context.Context) (domain.Session, error) {
	var (
		token    string
		userJSON string
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT token, user_json FROM session WHERE id = 1`,
	).Scan(&token, &userJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Session{}, err
	}

	var user domain.Identity
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return domain.Session{}, fmt.Errorf("corrupt session row: %w", err)
	}

	return domain.Session{Token: token, User: &user}, nil
}

func (r *sessionsRepo) Put(ctx context.Context, s domain.Session) error {
	if s.User == nil {
		return errors.New("sqlite: refusing to persist session without user")
	}

	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO session (id, token, user_json, updated_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   token = excluded.token,
		   user_json = excluded.user_json,
		   updated_at = excluded.updated_at`,
		s.Token, string(userJSON), now,
	)
	return err
}

func (r *sessionsRepo) Delete(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`)
	return err
}
