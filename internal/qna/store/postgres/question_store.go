package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"qna/internal/qna/models"
	"qna/pkg/platform/sentinel"
	"qna/pkg/platform/tx"
)

const questionColumns = `q.id, q.title, q.content, q.owner_user_id, COALESCE(u.username, ''),
	q.created_at, q.updated_at, q.is_active`

const questionFrom = ` FROM questions q LEFT JOIN users u ON u.id = q.owner_user_id`

const questionOrder = ` ORDER BY q.created_at DESC, q.id ASC`

// QuestionStore persists questions in PostgreSQL.
type QuestionStore struct {
	db *sql.DB
}

// NewQuestionStore constructs a PostgreSQL-backed question store.
func NewQuestionStore(db *sql.DB) *QuestionStore {
	return &QuestionStore{db: db}
}

// Create inserts the question and writes the generated id back.
func (s *QuestionStore) Create(ctx context.Context, q *models.Question) error {
	exec := tx.ExecutorFor(ctx, s.db)
	query := `
		WITH inserted AS (
			INSERT INTO questions (title, content, owner_user_id, created_at, updated_at, is_active)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, owner_user_id, created_at
		)
		SELECT inserted.id, inserted.created_at, COALESCE(u.username, '')
		FROM inserted LEFT JOIN users u ON u.id = inserted.owner_user_id
	`
	err := exec.QueryRowContext(ctx, query,
		q.Title, q.Content, q.OwnerUserID, q.CreatedAt, nullTime(q.UpdatedAt), q.IsActive,
	).Scan(&q.ID, &q.CreatedAt, &q.OwnerUsername)
	if err != nil {
		return fmt.Errorf("insert question: %w", translateInsertFK(err))
	}
	q.CreatedAt = q.CreatedAt.UTC()
	return nil
}

func (s *QuestionStore) FindByID(ctx context.Context, id int64) (*models.Question, error) {
	exec := tx.ExecutorFor(ctx, s.db)
	row := exec.QueryRowContext(ctx, `SELECT `+questionColumns+questionFrom+` WHERE q.id = $1`, id)
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find question by id: %w", err)
	}
	return q, nil
}

// FindByIDs returns the questions that exist among ids, newest first.
func (s *QuestionStore) FindByIDs(ctx context.Context, ids []int64) ([]*models.Question, error) {
	if len(ids) == 0 {
		return []*models.Question{}, nil
	}
	return s.query(ctx, "find questions by ids",
		`SELECT `+questionColumns+questionFrom+` WHERE q.id = ANY($1)`+questionOrder, pq.Array(ids))
}

func (s *QuestionStore) List(ctx context.Context) ([]*models.Question, error) {
	return s.query(ctx, "list questions", `SELECT `+questionColumns+questionFrom+questionOrder)
}

func (s *QuestionStore) ListByOwner(ctx context.Context, userID string) ([]*models.Question, error) {
	return s.query(ctx, "list questions by owner",
		`SELECT `+questionColumns+questionFrom+` WHERE q.owner_user_id = $1`+questionOrder, userID)
}

// Update writes title, content and updated_at only.
func (s *QuestionStore) Update(ctx context.Context, q *models.Question) error {
	exec := tx.ExecutorFor(ctx, s.db)
	var updatedAt sql.NullTime
	err := exec.QueryRowContext(ctx,
		`UPDATE questions SET title = $2, content = $3, updated_at = $4 WHERE id = $1 RETURNING updated_at`,
		q.ID, q.Title, q.Content, nullTime(q.UpdatedAt),
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("update question: %w", err)
	}
	q.UpdatedAt = timePtr(updatedAt)
	return nil
}

// Delete removes the question; answers go with it through the cascade.
func (s *QuestionStore) Delete(ctx context.Context, id int64) error {
	exec := tx.ExecutorFor(ctx, s.db)
	res, err := exec.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return requireAffected(res, "delete question")
}

func (s *QuestionStore) query(ctx context.Context, op, query string, args ...any) ([]*models.Question, error) {
	exec := tx.ExecutorFor(ctx, s.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	questions := make([]*models.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return questions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (*models.Question, error) {
	var (
		q         models.Question
		updatedAt sql.NullTime
	)
	if err := row.Scan(&q.ID, &q.Title, &q.Content, &q.OwnerUserID, &q.OwnerUsername,
		&q.CreatedAt, &updatedAt, &q.IsActive); err != nil {
		return nil, err
	}
	q.CreatedAt = q.CreatedAt.UTC()
	q.UpdatedAt = timePtr(updatedAt)
	return &q, nil
}
