package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"qna/internal/qna/models"
	"qna/internal/qna/store"
	"qna/pkg/platform/sentinel"
	"qna/pkg/platform/tx"
)

// UserStore persists the users referenced by questions and answers.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Upsert inserts the user or refreshes its username.
func (s *UserStore) Upsert(ctx context.Context, user models.User) error {
	exec := tx.ExecutorFor(ctx, s.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO users (id, username) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username
	`, user.ID, user.Username)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	exec := tx.ExecutorFor(ctx, s.db)
	var user models.User
	err := exec.QueryRowContext(ctx, `SELECT id, username FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// Delete is restricted by the owner foreign keys.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	exec := tx.ExecutorFor(ctx, s.db)
	res, err := exec.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			return store.ErrUserReferenced
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(res, "delete user")
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}

func timePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	return &t
}
