package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"qna/internal/qna/events"
	"qna/internal/qna/metrics"
	"qna/internal/qna/models"
	dErrors "qna/pkg/domain-errors"
	"qna/pkg/requestcontext"
)

// QuestionService manages questions and assembles their answers.
type QuestionService struct {
	options
	questions QuestionStore
	answers   AnswerStore
	answerSvc *AnswerService
}

// NewQuestionService constructs a QuestionService. Per-question answer
// listings are delegated to answerSvc.
func NewQuestionService(questions QuestionStore, answers AnswerStore, answerSvc *AnswerService, opts ...Option) *QuestionService {
	return &QuestionService{
		options:   newOptions(opts),
		questions: questions,
		answers:   answers,
		answerSvc: answerSvc,
	}
}

// List returns every question, newest first, with owners and answers.
func (s *QuestionService) List(ctx context.Context) (_ []*models.Question, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, metrics.EntityQuestion, "list")
	defer func() { s.finish(span, metrics.EntityQuestion, "list", start, err) }()

	questions, err := s.questions.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list questions")
	}
	if len(questions) == 0 {
		return questions, nil
	}

	ids := make([]int64, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	answers, err := s.answers.ListByQuestions(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load answers")
	}
	byQuestion := make(map[int64][]*models.Answer, len(questions))
	for _, a := range answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}
	for _, q := range questions {
		q.AttachAnswers(byQuestion[q.ID])
	}
	return questions, nil
}

// Get returns one question with its owner and answers.
func (s *QuestionService) Get(ctx context.Context, id int64) (_ *models.Question, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, metrics.EntityQuestion, "get", attribute.Int64("qna.question_id", id))
	defer func() { s.finish(span, metrics.EntityQuestion, "get", start, err) }()

	var (
		question *models.Question
		answers  []*models.Answer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := s.questions.FindByID(gctx, id)
		if err != nil {
			return notFoundOr(err, "question not found", "failed to load question")
		}
		question = q
		return nil
	})
	g.Go(func() error {
		as, err := s.answers.ListByQuestion(gctx, id)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load answers")
		}
		answers = as
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	question.AttachAnswers(answers)
	return question, nil
}

// ListByUser returns the questions owned by userID, newest first, without answers.
func (s *QuestionService) ListByUser(ctx context.Context, userID string) (_ []*models.Question, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, metrics.EntityQuestion, "list_by_user", attribute.String("qna.user_id", userID))
	defer func() { s.finish(span, metrics.EntityQuestion, "list_by_user", start, err) }()

	questions, err := s.questions.ListByOwner(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list questions by user")
	}
	return questions, nil
}

// ListAnswers returns the answers of a question, newest first.
func (s *QuestionService) ListAnswers(ctx context.Context, questionID int64) ([]*models.Answer, error) {
	return s.answerSvc.ListByQuestion(ctx, questionID)
}

// Create validates and stores a new question.
func (s *QuestionService) Create(ctx context.Context, cmd models.CreateQuestionCommand) (_ *models.Question, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, metrics.EntityQuestion, metrics.OpCreate)
	defer func() { s.finish(span, metrics.EntityQuestion, metrics.OpCreate, start, err) }()

	q, err := models.NewQuestion(cmd.Title, cmd.Content, cmd.OwnerUserID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create question")
	}

	s.committed(ctx, metrics.EntityQuestion, metrics.OpCreate,
		events.New(ctx, events.QuestionCreated, q.ID, 0),
		"question_id", q.ID, "owner_user_id", q.OwnerUserID)
	return q, nil
}

// Update replaces title and content. Owner and creation time never change.
func (s *QuestionService) Update(ctx context.Context, cmd models.UpdateQuestionCommand) (_ *models.Question, err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, metrics.EntityQuestion, metrics.OpUpdate, attribute.Int64("qna.question_id", cmd.ID))
	defer func() { s.finish(span, metrics.EntityQuestion, metrics.OpUpdate, start, err) }()

	var updated *models.Question
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		q, err := s.questions.FindByID(ctx, cmd.ID)
		if err != nil {
			return notFoundOr(err, "question not found", "failed to load question")
		}
		if err := q.ApplyEdit(cmd.Title, cmd.Content, requestcontext.Now(ctx)); err != nil {
			return err
		}
		if err := s.questions.Update(ctx, q); err != nil {
			return notFoundOr(err, "question not found", "failed to update question")
		}
		updated = q
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update question")
	}

	s.committed(ctx, metrics.EntityQuestion, metrics.OpUpdate,
		events.New(ctx, events.QuestionUpdated, updated.ID, 0),
		"question_id", updated.ID)
	return updated, nil
}

// Delete removes the question together with its answers.
func (s *QuestionService) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	ctx, span := s.startSpan(ctx, metrics.EntityQuestion, metrics.OpDelete, attribute.Int64("qna.question_id", id))
	defer func() { s.finish(span, metrics.EntityQuestion, metrics.OpDelete, start, err) }()

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.questions.FindByID(ctx, id); err != nil {
			return notFoundOr(err, "question not found", "failed to load question")
		}
		if err := s.questions.Delete(ctx, id); err != nil {
			return notFoundOr(err, "question not found", "failed to delete question")
		}
		return nil
	})
	if err != nil {
		return passThrough(err, "failed to delete question")
	}

	s.committed(ctx, metrics.EntityQuestion, metrics.OpDelete,
		events.New(ctx, events.QuestionDeleted, id, 0),
		"question_id", id)
	return nil
}
