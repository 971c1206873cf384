// Package events describes question/answer lifecycle notifications and the
// publishers that deliver them. Delivery is best-effort: a committed mutation
// is never rolled back because an event could not be sent.
package events

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"qna/pkg/requestcontext"
)

// Type names a lifecycle transition.
type Type string

const (
	QuestionCreated Type = "question.created"
	QuestionUpdated Type = "question.updated"
	QuestionDeleted Type = "question.deleted"
	AnswerCreated   Type = "answer.created"
	AnswerUpdated   Type = "answer.updated"
	AnswerDeleted   Type = "answer.deleted"
)

// Event is emitted after a mutation commits.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       Type      `json:"type"`
	QuestionID int64     `json:"question_id"`
	AnswerID   int64     `json:"answer_id,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps an event with a fresh id, the caller and the request time.
func New(ctx context.Context, eventType Type, questionID, answerID int64) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		QuestionID: questionID,
		AnswerID:   answerID,
		ActorID:    requestcontext.UserID(ctx),
		RequestID:  requestcontext.RequestID(ctx),
		OccurredAt: requestcontext.Now(ctx).UTC(),
	}
}

// Key partitions events by question so a question's history stays ordered.
func (e Event) Key() string {
	return strconv.FormatInt(e.QuestionID, 10)
}

// LogPublisher writes events to a structured logger. It is the default sink
// when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, string(event.Type),
		"event_id", event.ID.String(),
		"question_id", event.QuestionID,
		"answer_id", event.AnswerID,
		"actor_id", event.ActorID,
		"request_id", event.RequestID,
		"log_type", "event",
	)
	return nil
}
