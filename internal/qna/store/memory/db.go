// Package memory is an in-process relational model of the question/answer
// schema. It enforces the same foreign keys as PostgreSQL: answers cascade
// with their question, owners are restricted.
package memory

import (
	"cmp"
	"sync"
	"time"

	"qna/internal/qna/models"
)

// DB holds the three tables behind one lock. Stores built on the same DB see
// each other's rows, which is what makes cascade and restrict work.
type DB struct {
	mu             sync.RWMutex
	users          map[string]models.User
	questions      map[int64]*models.Question
	answers        map[int64]*models.Answer
	nextQuestionID int64
	nextAnswerID   int64
}

// NewDB creates an empty database.
func NewDB() *DB {
	return &DB{
		users:     make(map[string]models.User),
		questions: make(map[int64]*models.Question),
		answers:   make(map[int64]*models.Answer),
	}
}

// Rows handed out are copies joined with the owner's username; callers can
// mutate them freely. Must be called with mu held.
func (db *DB) questionRow(q *models.Question) *models.Question {
	c := *q
	c.Answers = nil
	c.UpdatedAt = cloneTime(q.UpdatedAt)
	c.OwnerUsername = db.users[q.OwnerUserID].Username
	return &c
}

func (db *DB) answerRow(a *models.Answer) *models.Answer {
	c := *a
	c.Question = nil
	c.UpdatedAt = cloneTime(a.UpdatedAt)
	c.OwnerUsername = db.users[a.OwnerUserID].Username
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// newestFirst orders by creation time descending, ties by ascending id.
func newestFirst(aCreated, bCreated time.Time, aID, bID int64) int {
	if c := bCreated.Compare(aCreated); c != 0 {
		return c
	}
	return cmp.Compare(aID, bID)
}
