package postgres

import (
	"errors"

	"github.com/lib/pq"

	"qna/internal/qna/store"
)

const foreignKeyViolation = "23503"

func isForeignKeyViolation(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return pqErr, true
	}
	return nil, false
}

// translateInsertFK maps foreign key violations raised by an insert onto the
// store errors. Anything else is returned unchanged.
func translateInsertFK(err error) error {
	pqErr, ok := isForeignKeyViolation(err)
	if !ok {
		return err
	}
	switch pqErr.Constraint {
	case "answers_question_id_fkey":
		return store.ErrQuestionNotFound
	case "questions_owner_user_id_fkey", "answers_owner_user_id_fkey":
		return store.ErrUnknownOwner
	}
	return err
}
