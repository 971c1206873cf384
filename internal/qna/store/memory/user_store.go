package memory

import (
	"context"

	"qna/internal/qna/models"
	"qna/internal/qna/store"
	"qna/pkg/platform/sentinel"
)

// UserStore is the in-memory users table.
type UserStore struct {
	db *DB
}

func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Upsert inserts the user or refreshes its username.
func (s *UserStore) Upsert(_ context.Context, user models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.users[user.ID] = user
	return nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	user, ok := s.db.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &user, nil
}

// Delete is restricted: a user who still owns questions or answers stays.
func (s *UserStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[id]; !ok {
		return sentinel.ErrNotFound
	}
	for _, q := range s.db.questions {
		if q.OwnerUserID == id {
			return store.ErrUserReferenced
		}
	}
	for _, a := range s.db.answers {
		if a.OwnerUserID == id {
			return store.ErrUserReferenced
		}
	}
	delete(s.db.users, id)
	return nil
}
