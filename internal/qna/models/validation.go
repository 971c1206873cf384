package models

import (
	"strings"
	"unicode/utf8"

	dErrors "qna/pkg/domain-errors"
)

// MaxTitleLength is the longest accepted question title, in characters.
const MaxTitleLength = 200

// ValidateQuestionFields checks the content-bearing fields of a question.
// Whitespace-only values count as empty.
func ValidateQuestionFields(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return dErrors.Invalid("title", "title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return dErrors.Invalid("title", "title must be 200 characters or less")
	}
	if strings.TrimSpace(content) == "" {
		return dErrors.Invalid("content", "content is required")
	}
	return nil
}

// ValidateAnswerFields checks the content of an answer.
func ValidateAnswerFields(content string) error {
	if strings.TrimSpace(content) == "" {
		return dErrors.Invalid("content", "content is required")
	}
	return nil
}

func validateOwner(ownerUserID string) error {
	if strings.TrimSpace(ownerUserID) == "" {
		return dErrors.Invalid("owner_user_id", "owner_user_id is required")
	}
	return nil
}
