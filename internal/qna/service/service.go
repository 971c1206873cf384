// Package service implements the question and answer use cases: validation,
// lifecycle stamping, store orchestration and error translation. Authorization
// is decided by the caller.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"qna/internal/qna/events"
	"qna/internal/qna/metrics"
	"qna/internal/qna/models"
	dErrors "qna/pkg/domain-errors"
	"qna/pkg/platform/sentinel"
	"qna/pkg/requestcontext"
)

type QuestionStore interface {
	Create(ctx context.Context, q *models.Question) error
	FindByID(ctx context.Context, id int64) (*models.Question, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*models.Question, error)
	List(ctx context.Context) ([]*models.Question, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Question, error)
	Update(ctx context.Context, q *models.Question) error
	Delete(ctx context.Context, id int64) error
}

type AnswerStore interface {
	Create(ctx context.Context, a *models.Answer) error
	FindByID(ctx context.Context, id int64) (*models.Answer, error)
	List(ctx context.Context) ([]*models.Answer, error)
	ListByQuestion(ctx context.Context, questionID int64) ([]*models.Answer, error)
	ListByQuestions(ctx context.Context, questionIDs []int64) ([]*models.Answer, error)
	Update(ctx context.Context, a *models.Answer) error
	Delete(ctx context.Context, id int64) error
}

// StoreTx runs a find-then-mutate unit of work atomically.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

var tracer = otel.Tracer("qna/internal/qna/service")

// DefaultPublishTimeout bounds lifecycle event delivery after a commit.
const DefaultPublishTimeout = 3 * time.Second

type options struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher      EventPublisher
	publishTimeout time.Duration
	tx             StoreTx
}

type Option func(o *options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func WithEventPublisher(publisher EventPublisher) Option {
	return func(o *options) {
		o.publisher = publisher
	}
}

// WithPublishTimeout caps how long a mutation waits for its lifecycle event
// to be delivered. Non-positive values keep the default.
func WithPublishTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.publishTimeout = timeout
		}
	}
}

// WithTx sets the transaction runner. Without it, units of work are
// serialized by an in-process lock, which suits the in-memory store.
func WithTx(tx StoreTx) Option {
	return func(o *options) {
		o.tx = tx
	}
}

func newOptions(opts []Option) options {
	o := options{publishTimeout: DefaultPublishTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tx == nil {
		o.tx = NewLocalTx()
	}
	return o
}

// LocalTx serializes units of work in-process. Share one instance between
// services that share an in-memory store.
type LocalTx struct {
	mu sync.Mutex
}

func NewLocalTx() *LocalTx {
	return &LocalTx{}
}

func (t *LocalTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

func (o *options) startSpan(ctx context.Context, entity, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("qna.entity", entity),
		attribute.String("qna.operation", operation),
	)
	return tracer.Start(ctx, entity+"."+operation, trace.WithAttributes(attrs...))
}

// finish closes the span and records duration; call via defer with the named error.
func (o *options) finish(span trace.Span, entity, operation string, start time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	if o.metrics != nil {
		o.metrics.ObserveOperation(entity, operation, start)
	}
}

// committed runs the after-commit side effects of a mutation: audit log,
// mutation counter and lifecycle event.
func (o *options) committed(ctx context.Context, entity, operation string, event events.Event, attributes ...any) {
	if o.metrics != nil {
		o.metrics.IncrementMutation(entity, operation)
	}
	o.logAudit(ctx, string(event.Type), attributes...)
	if o.publisher == nil {
		return
	}
	// The mutation is already committed: delivery outlives a cancelled request
	// but never the publish timeout.
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.publishTimeout)
	defer cancel()
	if err := o.publisher.Publish(publishCtx, event); err != nil && o.logger != nil {
		o.logger.WarnContext(ctx, "failed to publish lifecycle event",
			"event", string(event.Type),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func (o *options) logAudit(ctx context.Context, event string, attributes ...any) {
	if o.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	if actor := requestcontext.UserID(ctx); actor != "" {
		attributes = append(attributes, "actor_id", actor)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	o.logger.InfoContext(ctx, event, args...)
}

// notFoundOr translates a lookup failure. Missing rows become a coded
// NotFound; anything else is an internal error that keeps its cause.
func notFoundOr(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}

// passThrough keeps already-coded errors intact when they cross a
// transaction boundary.
func passThrough(err error, internalMsg string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}
