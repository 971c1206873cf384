package handler

import (
	"qna/internal/qna/models"
	dErrors "qna/pkg/domain-errors"
	"qna/pkg/requestcontext"
)

// Any authenticated caller may ask a question.
func authorizeCreateQuestion(identity requestcontext.Identity) error {
	if !identity.IsAuthenticated() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return nil
}

// Questions are edited or deleted by their owner or an administrator.
func authorizeModifyQuestion(identity requestcontext.Identity, q *models.Question) error {
	if err := authorizeCreateQuestion(identity); err != nil {
		return err
	}
	if identity.IsAdmin() || q.IsOwnedBy(identity.UserID) {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "only the owner or an administrator may change this question")
}

// Answers are managed by administrators only.
func authorizeManageAnswers(identity requestcontext.Identity) error {
	if err := authorizeCreateQuestion(identity); err != nil {
		return err
	}
	if !identity.IsAdmin() {
		return dErrors.New(dErrors.CodeForbidden, "only an administrator may manage answers")
	}
	return nil
}
