package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"qna/internal/qna/events"
	"qna/internal/qna/metrics"
	"qna/internal/qna/models"
	"qna/internal/qna/store"
	dErrors "qna/pkg/domain-errors"
	"qna/pkg/requestcontext"
)

// AnswerService manages answers. It never reads questions to validate a
// create; the store's foreign key does that.
type AnswerService struct {
	options
	answers   AnswerStore
	questions QuestionStore
}

// NewAnswerService constructs an AnswerService. questions is used to attach
// the parent question to answers on read.
func NewAnswerService(answers AnswerStore, questions QuestionStore, opts ...Option) *AnswerService {
	return &AnswerService{
		options:   newOptions(opts),
		answers:   answers,
		questions: questions,
	}
}

// List returns every answer in ascending id order with its parent question.
func (s *AnswerService) List(ctx context.Context) (_ []*models.Answer, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, metrics.EntityAnswer, "list")
	defer func() { s.finish(span, metrics.EntityAnswer, "list", start, err) }()

	answers, err := s.answers.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list answers")
	}
	if err := s.attachQuestions(ctx, answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// Get returns one answer with its parent question.
func (s *AnswerService) Get(ctx context.Context, id int64) (_ *models.Answer, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, metrics.EntityAnswer, "get", attribute.Int64("qna.answer_id", id))
	defer func() { s.finish(span, metrics.EntityAnswer, "get", start, err) }()

	a, err := s.answers.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "answer not found", "failed to load answer")
	}
	if err := s.attachQuestions(ctx, []*models.Answer{a}); err != nil {
		return nil, err
	}
	return a, nil
}

// ListByQuestion returns the answers of a question, newest first. An unknown
// question yields an empty list.
func (s *AnswerService) ListByQuestion(ctx context.Context, questionID int64) (_ []*models.Answer, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, metrics.EntityAnswer, "list_by_question", attribute.Int64("qna.question_id", questionID))
	defer func() { s.finish(span, metrics.EntityAnswer, "list_by_question", start, err) }()

	answers, err := s.answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list answers")
	}
	return answers, nil
}

// Create validates and stores a new answer. A missing question is reported
// as NotFound and leaves no row behind.
func (s *AnswerService) Create(ctx context.Context, cmd models.CreateAnswerCommand) (_ *models.Answer, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, metrics.EntityAnswer, metrics.OpCreate, attribute.Int64("qna.question_id", cmd.QuestionID))
	defer func() { s.finish(span, metrics.EntityAnswer, metrics.OpCreate, start, err) }()

	a, err := models.NewAnswer(cmd.QuestionID, cmd.Content, cmd.OwnerUserID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.answers.Create(ctx, a); err != nil {
		if errors.Is(err, store.ErrQuestionNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "question not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create answer")
	}

	s.committed(ctx, metrics.EntityAnswer, metrics.OpCreate,
		events.New(ctx, events.AnswerCreated, a.QuestionID, a.ID),
		"answer_id", a.ID, "question_id", a.QuestionID, "owner_user_id", a.OwnerUserID)
	return a, nil
}

// Update replaces the answer content.
func (s *AnswerService) Update(ctx context.Context, cmd models.UpdateAnswerCommand) (_ *models.Answer, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, metrics.EntityAnswer, metrics.OpUpdate, attribute.Int64("qna.answer_id", cmd.ID))
	defer func() { s.finish(span, metrics.EntityAnswer, metrics.OpUpdate, start, err) }()

	var updated *models.Answer
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		a, err := s.answers.FindByID(ctx, cmd.ID)
		if err != nil {
			return notFoundOr(err, "answer not found", "failed to load answer")
		}
		if err := a.ApplyEdit(cmd.Content, requestcontext.Now(ctx)); err != nil {
			return err
		}
		if err := s.answers.Update(ctx, a); err != nil {
			return notFoundOr(err, "answer not found", "failed to update answer")
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update answer")
	}

	s.committed(ctx, metrics.EntityAnswer, metrics.OpUpdate,
		events.New(ctx, events.AnswerUpdated, updated.QuestionID, updated.ID),
		"answer_id", updated.ID)
	return updated, nil
}

// Delete removes one answer.
func (s *AnswerService) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, metrics.EntityAnswer, metrics.OpDelete, attribute.Int64("qna.answer_id", id))
	defer func() { s.finish(span, metrics.EntityAnswer, metrics.OpDelete, start, err) }()

	var questionID int64
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		a, err := s.answers.FindByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "answer not found", "failed to load answer")
		}
		questionID = a.QuestionID
		if err := s.answers.Delete(ctx, id); err != nil {
			return notFoundOr(err, "answer not found", "failed to delete answer")
		}
		return nil
	})
	if err != nil {
		return passThrough(err, "failed to delete answer")
	}

	s.committed(ctx, metrics.EntityAnswer, metrics.OpDelete,
		events.New(ctx, events.AnswerDeleted, questionID, id),
		"answer_id", id, "question_id", questionID)
	return nil
}

// attachQuestions sets the parent question summary on each answer with one
// batched lookup.
func (s *AnswerService) attachQuestions(ctx context.Context, answers []*models.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(answers))
	ids := make([]int64, 0, len(answers))
	for _, a := range answers {
		if !seen[a.QuestionID] {
			seen[a.QuestionID] = true
			ids = append(ids, a.QuestionID)
		}
	}
	questions, err := s.questions.FindByIDs(ctx, ids)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load questions")
	}
	byID := make(map[int64]*models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q.Summary()
	}
	for _, a := range answers {
		a.Question = byID[a.QuestionID]
	}
	return nil
}
