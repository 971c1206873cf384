//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"qna/internal/qna/models"
	"qna/internal/qna/store"
	"qna/internal/qna/store/postgres"
	"qna/pkg/platform/sentinel"
	"qna/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg        *containers.PostgresContainer
	ctx       context.Context
	questions *postgres.QuestionStore
	answers   *postgres.AnswerStore
	users     *postgres.UserStore
	tx        *postgres.Tx
	base      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(postgres.Migrate(s.ctx, s.pg.DB))
	// Migrate is idempotent.
	s.Require().NoError(postgres.Migrate(s.ctx, s.pg.DB))

	s.questions = postgres.NewQuestionStore(s.pg.DB)
	s.answers = postgres.NewAnswerStore(s.pg.DB)
	s.users = postgres.NewUserStore(s.pg.DB)
	s.tx = postgres.NewTx(s.pg.DB)
	s.base = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	// Truncate in dependency order
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "answers", "questions", "users"))
	s.Require().NoError(s.users.Upsert(s.ctx, models.User{ID: "alice", Username: "Alice"}))
	s.Require().NoError(s.users.Upsert(s.ctx, models.User{ID: "bob", Username: "Bob"}))
}

func (s *PostgresStoreSuite) createQuestion(owner string, offset time.Duration) *models.Question {
	q, err := models.NewQuestion("Title", "Body", owner, s.base.Add(offset))
	s.Require().NoError(err)
	s.Require().NoError(s.questions.Create(s.ctx, q))
	return q
}

func (s *PostgresStoreSuite) createAnswer(questionID int64, owner string, offset time.Duration) *models.Answer {
	a, err := models.NewAnswer(questionID, "Reply", owner, s.base.Add(offset))
	s.Require().NoError(err)
	s.Require().NoError(s.answers.Create(s.ctx, a))
	return a
}

func (s *PostgresStoreSuite) TestQuestionRoundTrip() {
	q := s.createQuestion("alice", 0)
	s.NotZero(q.ID)
	s.Equal("Alice", q.OwnerUsername)

	found, err := s.questions.FindByID(s.ctx, q.ID)
	s.Require().NoError(err)
	s.Equal(q.Title, found.Title)
	s.Equal("Alice", found.OwnerUsername)
	s.True(found.CreatedAt.Equal(s.base))
	s.Equal(time.UTC, found.CreatedAt.Location())
	s.Nil(found.UpdatedAt)
	s.True(found.IsActive)

	s.Require().NoError(found.ApplyEdit("Edited", "Edited body", s.base.Add(time.Hour)))
	s.Require().NoError(s.questions.Update(s.ctx, found))

	again, err := s.questions.FindByID(s.ctx, q.ID)
	s.Require().NoError(err)
	s.Equal("Edited", again.Title)
	s.Require().NotNil(again.UpdatedAt)
	s.True(again.UpdatedAt.Equal(s.base.Add(time.Hour)))
}

func (s *PostgresStoreSuite) TestWriteReturnsStoredTimestamps() {
	// Go clocks carry nanoseconds; TIMESTAMPTZ keeps microseconds.
	created := s.base.Add(123456789 * time.Nanosecond)
	q, err := models.NewQuestion("Title", "Body", "alice", created)
	s.Require().NoError(err)
	s.Require().NoError(s.questions.Create(s.ctx, q))

	found, err := s.questions.FindByID(s.ctx, q.ID)
	s.Require().NoError(err)
	s.True(found.CreatedAt.Equal(q.CreatedAt))
	s.True(q.CreatedAt.Equal(created.Truncate(time.Microsecond)))

	s.Require().NoError(q.ApplyEdit("Edited", "Body", created.Add(time.Hour)))
	s.Require().NoError(s.questions.Update(s.ctx, q))
	found, err = s.questions.FindByID(s.ctx, q.ID)
	s.Require().NoError(err)
	s.Require().NotNil(q.UpdatedAt)
	s.True(found.UpdatedAt.Equal(*q.UpdatedAt))

	a, err := models.NewAnswer(q.ID, "Reply", "bob", created)
	s.Require().NoError(err)
	s.Require().NoError(s.answers.Create(s.ctx, a))
	s.Require().NoError(a.ApplyEdit("Edited reply", created.Add(time.Minute)))
	s.Require().NoError(s.answers.Update(s.ctx, a))
	foundAnswer, err := s.answers.FindByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.True(foundAnswer.CreatedAt.Equal(a.CreatedAt))
	s.Require().NotNil(a.UpdatedAt)
	s.True(foundAnswer.UpdatedAt.Equal(*a.UpdatedAt))
}

func (s *PostgresStoreSuite) TestMissingRows() {
	_, err := s.questions.FindByID(s.ctx, 424242)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	s.Require().ErrorIs(s.questions.Update(s.ctx, &models.Question{ID: 424242}), sentinel.ErrNotFound)
	s.Require().ErrorIs(s.questions.Delete(s.ctx, 424242), sentinel.ErrNotFound)

	_, err = s.answers.FindByID(s.ctx, 424242)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	s.Require().ErrorIs(s.answers.Update(s.ctx, &models.Answer{ID: 424242}), sentinel.ErrNotFound)
	s.Require().ErrorIs(s.answers.Delete(s.ctx, 424242), sentinel.ErrNotFound)

	s.Require().ErrorIs(s.users.Delete(s.ctx, "ghost"), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestForeignKeys() {
	s.Run("answer for missing question", func() {
		a, err := models.NewAnswer(424242, "Reply", "bob", s.base)
		s.Require().NoError(err)
		err = s.answers.Create(s.ctx, a)
		s.Require().ErrorIs(err, store.ErrQuestionNotFound)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("question with unknown owner", func() {
		q, err := models.NewQuestion("Title", "Body", "ghost", s.base)
		s.Require().NoError(err)
		s.Require().ErrorIs(s.questions.Create(s.ctx, q), store.ErrUnknownOwner)
	})

	s.Run("user delete is restricted while content exists", func() {
		s.createQuestion("alice", 0)
		err := s.users.Delete(s.ctx, "alice")
		s.Require().ErrorIs(err, store.ErrUserReferenced)
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("question delete cascades to answers", func() {
		q := s.createQuestion("alice", 0)
		a := s.createAnswer(q.ID, "bob", time.Minute)
		s.Require().NoError(s.questions.Delete(s.ctx, q.ID))
		_, err := s.answers.FindByID(s.ctx, a.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestOrdering() {
	older := s.createQuestion("alice", 0)
	newer := s.createQuestion("bob", time.Hour)
	a1 := s.createAnswer(older.ID, "bob", 2*time.Hour)
	a2 := s.createAnswer(newer.ID, "alice", 3*time.Hour)
	a3 := s.createAnswer(older.ID, "alice", time.Hour)

	all, err := s.questions.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(newer.ID, all[0].ID)
	s.Equal(older.ID, all[1].ID)

	mine, err := s.questions.ListByOwner(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(older.ID, mine[0].ID)

	byIDs, err := s.questions.FindByIDs(s.ctx, []int64{older.ID, newer.ID})
	s.Require().NoError(err)
	s.Len(byIDs, 2)

	answers, err := s.answers.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(answers, 3)
	s.Equal([]int64{a1.ID, a2.ID, a3.ID}, []int64{answers[0].ID, answers[1].ID, answers[2].ID})

	forOlder, err := s.answers.ListByQuestion(s.ctx, older.ID)
	s.Require().NoError(err)
	s.Require().Len(forOlder, 2)
	s.Equal(a1.ID, forOlder[0].ID)
	s.Equal("Bob", forOlder[0].OwnerUsername)

	batch, err := s.answers.ListByQuestions(s.ctx, []int64{older.ID, newer.ID})
	s.Require().NoError(err)
	s.Require().Len(batch, 3)
	s.Equal(a2.ID, batch[0].ID)
}

func (s *PostgresStoreSuite) TestTransactionRollsBack() {
	errBoom := errors.New("boom")
	var created int64

	err := s.tx.RunInTx(s.ctx, func(ctx context.Context) error {
		q, err := models.NewQuestion("Title", "Body", "alice", s.base)
		s.Require().NoError(err)
		if err := s.questions.Create(ctx, q); err != nil {
			return err
		}
		created = q.ID
		return errBoom
	})
	s.Require().ErrorIs(err, errBoom)

	_, err = s.questions.FindByID(s.ctx, created)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
