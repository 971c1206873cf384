package models

import "time"

// Answer is a reply to a specific question.
//
// Invariants:
//   - Content is non-empty
//   - ID, QuestionID, OwnerUserID and CreatedAt are immutable after creation
//   - QuestionID referenced an existing question when the answer was created
type Answer struct {
	ID            int64      `json:"id"`
	Content       string     `json:"content"`
	QuestionID    int64      `json:"question_id"`
	OwnerUserID   string     `json:"owner_user_id"`
	OwnerUsername string     `json:"owner_username,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
	IsActive      bool       `json:"is_active"`
	Question      *Question  `json:"question,omitempty"`
}

// NewAnswer validates caller-supplied fields and stamps the lifecycle fields.
func NewAnswer(questionID int64, content, ownerUserID string, now time.Time) (*Answer, error) {
	if err := ValidateAnswerFields(content); err != nil {
		return nil, err
	}
	if err := validateOwner(ownerUserID); err != nil {
		return nil, err
	}
	return &Answer{
		Content:     content,
		QuestionID:  questionID,
		OwnerUserID: ownerUserID,
		CreatedAt:   now.UTC(),
		IsActive:    true,
	}, nil
}

// ApplyEdit overwrites the content. Nothing else about an answer is mutable.
func (a *Answer) ApplyEdit(content string, now time.Time) error {
	if err := ValidateAnswerFields(content); err != nil {
		return err
	}
	updatedAt := now.UTC()
	a.Content = content
	a.UpdatedAt = &updatedAt
	return nil
}

// IsOwnedBy reports whether userID created the answer.
func (a *Answer) IsOwnedBy(userID string) bool {
	return userID != "" && a.OwnerUserID == userID
}
