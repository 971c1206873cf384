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

const answerColumns = `a.id, a.content, a.question_id, a.owner_user_id, COALESCE(u.username, ''),
	a.created_at, a.updated_at, a.is_active`

const answerFrom = ` FROM answers a LEFT JOIN users u ON u.id = a.owner_user_id`

const answerNewestFirst = ` ORDER BY a.created_at DESC, a.id ASC`

// AnswerStore persists answers in PostgreSQL.
type AnswerStore struct {
	db *sql.DB
}

// NewAnswerStore constructs a PostgreSQL-backed answer store.
func NewAnswerStore(db *sql.DB) *AnswerStore {
	return &AnswerStore{db: db}
}

// Create inserts the answer. A missing question surfaces as
// store.ErrQuestionNotFound through the foreign key.
func (s *AnswerStore) Create(ctx context.Context, a *models.Answer) error {
	exec := tx.ExecutorFor(ctx, s.db)
	query := `
		WITH inserted AS (
			INSERT INTO answers (content, question_id, owner_user_id, created_at, updated_at, is_active)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, owner_user_id, created_at
		)
		SELECT inserted.id, inserted.created_at, COALESCE(u.username, '')
		FROM inserted LEFT JOIN users u ON u.id = inserted.owner_user_id
	`
	err := exec.QueryRowContext(ctx, query,
		a.Content, a.QuestionID, a.OwnerUserID, a.CreatedAt, nullTime(a.UpdatedAt), a.IsActive,
	).Scan(&a.ID, &a.CreatedAt, &a.OwnerUsername)
	if err != nil {
		return fmt.Errorf("insert answer: %w", translateInsertFK(err))
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return nil
}

func (s *AnswerStore) FindByID(ctx context.Context, id int64) (*models.Answer, error) {
	exec := tx.ExecutorFor(ctx, s.db)
	row := exec.QueryRowContext(ctx, `SELECT `+answerColumns+answerFrom+` WHERE a.id = $1`, id)
	a, err := scanAnswer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find answer by id: %w", err)
	}
	return a, nil
}

// List returns every answer in ascending id order.
func (s *AnswerStore) List(ctx context.Context) ([]*models.Answer, error) {
	return s.query(ctx, "list answers", `SELECT `+answerColumns+answerFrom+` ORDER BY a.id ASC`)
}

func (s *AnswerStore) ListByQuestion(ctx context.Context, questionID int64) ([]*models.Answer, error) {
	return s.query(ctx, "list answers by question",
		`SELECT `+answerColumns+answerFrom+` WHERE a.question_id = $1`+answerNewestFirst, questionID)
}

func (s *AnswerStore) ListByQuestions(ctx context.Context, questionIDs []int64) ([]*models.Answer, error) {
	if len(questionIDs) == 0 {
		return []*models.Answer{}, nil
	}
	return s.query(ctx, "list answers by questions",
		`SELECT `+answerColumns+answerFrom+` WHERE a.question_id = ANY($1)`+answerNewestFirst, pq.Array(questionIDs))
}

// Update writes content and updated_at only.
func (s *AnswerStore) Update(ctx context.Context, a *models.Answer) error {
	exec := tx.ExecutorFor(ctx, s.db)
	var updatedAt sql.NullTime
	err := exec.QueryRowContext(ctx,
		`UPDATE answers SET content = $2, updated_at = $3 WHERE id = $1 RETURNING updated_at`,
		a.ID, a.Content, nullTime(a.UpdatedAt),
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("update answer: %w", err)
	}
	a.UpdatedAt = timePtr(updatedAt)
	return nil
}

func (s *AnswerStore) Delete(ctx context.Context, id int64) error {
	exec := tx.ExecutorFor(ctx, s.db)
	res, err := exec.ExecContext(ctx, `DELETE FROM answers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	return requireAffected(res, "delete answer")
}

func (s *AnswerStore) query(ctx context.Context, op, query string, args ...any) ([]*models.Answer, error) {
	exec := tx.ExecutorFor(ctx, s.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	answers := make([]*models.Answer, 0)
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return answers, nil
}

func scanAnswer(row scanner) (*models.Answer, error) {
	var (
		a         models.Answer
		updatedAt sql.NullTime
	)
	if err := row.Scan(&a.ID, &a.Content, &a.QuestionID, &a.OwnerUserID, &a.OwnerUsername,
		&a.CreatedAt, &updatedAt, &a.IsActive); err != nil {
		return nil, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = timePtr(updatedAt)
	return &a, nil
}
