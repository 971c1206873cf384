package memory

import (
	"context"
	"slices"

	"qna/internal/qna/models"
	"qna/internal/qna/store"
	"qna/pkg/platform/sentinel"
)

// QuestionStore is the in-memory questions table.
type QuestionStore struct {
	db *DB
}

func NewQuestionStore(db *DB) *QuestionStore {
	return &QuestionStore{db: db}
}

// Create assigns the next id. The owner must already exist.
func (s *QuestionStore) Create(_ context.Context, q *models.Question) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[q.OwnerUserID]; !ok {
		return store.ErrUnknownOwner
	}
	s.db.nextQuestionID++
	q.ID = s.db.nextQuestionID
	row := *q
	row.Answers = nil
	row.OwnerUsername = ""
	row.UpdatedAt = cloneTime(q.UpdatedAt)
	s.db.questions[q.ID] = &row
	q.OwnerUsername = s.db.users[q.OwnerUserID].Username
	return nil
}

func (s *QuestionStore) FindByID(_ context.Context, id int64) (*models.Question, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	q, ok := s.db.questions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.db.questionRow(q), nil
}

// FindByIDs returns the questions that exist among ids, newest first.
func (s *QuestionStore) FindByIDs(_ context.Context, ids []int64) ([]*models.Question, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	out := make([]*models.Question, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if q, ok := s.db.questions[id]; ok {
			out = append(out, s.db.questionRow(q))
		}
	}
	sortQuestions(out)
	return out, nil
}

func (s *QuestionStore) List(_ context.Context) ([]*models.Question, error) {
	return s.filter(func(*models.Question) bool { return true }), nil
}

func (s *QuestionStore) ListByOwner(_ context.Context, userID string) ([]*models.Question, error) {
	return s.filter(func(q *models.Question) bool { return q.OwnerUserID == userID }), nil
}

func (s *QuestionStore) filter(keep func(*models.Question) bool) []*models.Question {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	out := make([]*models.Question, 0, len(s.db.questions))
	for _, q := range s.db.questions {
		if keep(q) {
			out = append(out, s.db.questionRow(q))
		}
	}
	sortQuestions(out)
	return out
}

// Update writes title, content and updated_at. Other columns are never touched.
func (s *QuestionStore) Update(_ context.Context, q *models.Question) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	row, ok := s.db.questions[q.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	row.Title = q.Title
	row.Content = q.Content
	row.UpdatedAt = cloneTime(q.UpdatedAt)
	return nil
}

// Delete removes the question and cascades to its answers.
func (s *QuestionStore) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.questions[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.db.questions, id)
	for answerID, a := range s.db.answers {
		if a.QuestionID == id {
			delete(s.db.answers, answerID)
		}
	}
	return nil
}

func sortQuestions(qs []*models.Question) {
	slices.SortFunc(qs, func(a, b *models.Question) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
}
