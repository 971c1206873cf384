package memory

import (
	"cmp"
	"context"
	"slices"

	"qna/internal/qna/models"
	"qna/internal/qna/store"
	"qna/pkg/platform/sentinel"
)

// AnswerStore is the in-memory answers table.
type AnswerStore struct {
	db *DB
}

func NewAnswerStore(db *DB) *AnswerStore {
	return &AnswerStore{db: db}
}

// Create assigns the next id. Both the question and the owner must exist;
// nothing is written otherwise.
func (s *AnswerStore) Create(_ context.Context, a *models.Answer) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.questions[a.QuestionID]; !ok {
		return store.ErrQuestionNotFound
	}
	if _, ok := s.db.users[a.OwnerUserID]; !ok {
		return store.ErrUnknownOwner
	}
	s.db.nextAnswerID++
	a.ID = s.db.nextAnswerID
	row := *a
	row.Question = nil
	row.OwnerUsername = ""
	row.UpdatedAt = cloneTime(a.UpdatedAt)
	s.db.answers[a.ID] = &row
	a.OwnerUsername = s.db.users[a.OwnerUserID].Username
	return nil
}

func (s *AnswerStore) FindByID(_ context.Context, id int64) (*models.Answer, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	a, ok := s.db.answers[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.db.answerRow(a), nil
}

// List returns every answer in ascending id order.
func (s *AnswerStore) List(_ context.Context) ([]*models.Answer, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	out := make([]*models.Answer, 0, len(s.db.answers))
	for _, a := range s.db.answers {
		out = append(out, s.db.answerRow(a))
	}
	slices.SortFunc(out, func(a, b *models.Answer) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *AnswerStore) ListByQuestion(ctx context.Context, questionID int64) ([]*models.Answer, error) {
	return s.ListByQuestions(ctx, []int64{questionID})
}

// ListByQuestions returns the answers of all given questions, newest first.
func (s *AnswerStore) ListByQuestions(_ context.Context, questionIDs []int64) ([]*models.Answer, error) {
	wanted := make(map[int64]bool, len(questionIDs))
	for _, id := range questionIDs {
		wanted[id] = true
	}
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	out := make([]*models.Answer, 0)
	for _, a := range s.db.answers {
		if wanted[a.QuestionID] {
			out = append(out, s.db.answerRow(a))
		}
	}
	slices.SortFunc(out, func(a, b *models.Answer) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return out, nil
}

// Update writes content and updated_at only.
func (s *AnswerStore) Update(_ context.Context, a *models.Answer) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	row, ok := s.db.answers[a.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	row.Content = a.Content
	row.UpdatedAt = cloneTime(a.UpdatedAt)
	return nil
}

func (s *AnswerStore) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.answers[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.db.answers, id)
	return nil
}
