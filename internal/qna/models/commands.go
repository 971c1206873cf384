package models

// CreateQuestionCommand carries the caller-supplied fields for a new question.
type CreateQuestionCommand struct {
	Title       string
	Content     string
	OwnerUserID string
}

// UpdateQuestionCommand replaces the content-bearing fields of a question.
type UpdateQuestionCommand struct {
	ID      int64
	Title   string
	Content string
}

// CreateAnswerCommand carries the caller-supplied fields for a new answer.
type CreateAnswerCommand struct {
	QuestionID  int64
	Content     string
	OwnerUserID string
}

// UpdateAnswerCommand replaces the content of an answer.
type UpdateAnswerCommand struct {
	ID      int64
	Content string
}
