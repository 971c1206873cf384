package models

import "time"

// Question is a top-level content item posted by a user.
//
// Invariants:
//   - Title is non-empty and at most 200 characters
//   - Content is non-empty
//   - ID, OwnerUserID and CreatedAt are immutable after creation
//   - IsActive is set at creation and never cleared; deletion is a hard delete
//   - Answers only holds answers whose QuestionID equals ID, newest first
type Question struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	OwnerUserID   string     `json:"owner_user_id"`
	OwnerUsername string     `json:"owner_username,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
	IsActive      bool       `json:"is_active"`
	Answers       []*Answer  `json:"answers"`
}

// NewQuestion validates caller-supplied fields and stamps the lifecycle
// fields. The ID is assigned by the store.
func NewQuestion(title, content, ownerUserID string, now time.Time) (*Question, error) {
	if err := ValidateQuestionFields(title, content); err != nil {
		return nil, err
	}
	if err := validateOwner(ownerUserID); err != nil {
		return nil, err
	}
	return &Question{
		Title:       title,
		Content:     content,
		OwnerUserID: ownerUserID,
		CreatedAt:   now.UTC(),
		IsActive:    true,
	}, nil
}

// ApplyEdit overwrites the content-bearing fields. Ownership and creation
// time are left untouched.
func (q *Question) ApplyEdit(title, content string, now time.Time) error {
	if err := ValidateQuestionFields(title, content); err != nil {
		return err
	}
	updatedAt := now.UTC()
	q.Title = title
	q.Content = content
	q.UpdatedAt = &updatedAt
	return nil
}

// IsOwnedBy reports whether userID created the question.
func (q *Question) IsOwnedBy(userID string) bool {
	return userID != "" && q.OwnerUserID == userID
}

// AttachAnswers sets the answers collection, keeping only answers that belong
// to this question.
func (q *Question) AttachAnswers(answers []*Answer) {
	q.Answers = make([]*Answer, 0, len(answers))
	for _, a := range answers {
		if a.QuestionID == q.ID {
			q.Answers = append(q.Answers, a)
		}
	}
}

// Summary returns a copy without the answers collection, used as the parent
// reference on an answer.
func (q *Question) Summary() *Question {
	c := *q
	c.Answers = nil
	return &c
}
