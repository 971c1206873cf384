// Package postgres persists questions, answers and users in PostgreSQL via
// database/sql and lib/pq. Stores join a transaction carried in the context
// (see pkg/platform/tx) and fall back to the pool otherwise.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		content TEXT NOT NULL,
		owner_user_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		CONSTRAINT questions_owner_user_id_fkey FOREIGN KEY (owner_user_id)
			REFERENCES users (id) ON DELETE RESTRICT
	)`,
	`CREATE TABLE IF NOT EXISTS answers (
		id BIGSERIAL PRIMARY KEY,
		content TEXT NOT NULL,
		question_id BIGINT NOT NULL,
		owner_user_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		CONSTRAINT answers_question_id_fkey FOREIGN KEY (question_id)
			REFERENCES questions (id) ON DELETE CASCADE,
		CONSTRAINT answers_owner_user_id_fkey FOREIGN KEY (owner_user_id)
			REFERENCES users (id) ON DELETE RESTRICT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_created_at ON questions (created_at DESC, id)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_owner ON questions (owner_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_answers_question ON answers (question_id)`,
	`CREATE INDEX IF NOT EXISTS idx_answers_owner ON answers (owner_user_id)`,
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
