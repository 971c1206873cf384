// Package handler exposes the question and answer services as a JSON API.
// Reads are anonymous; mutations require a bearer identity and are checked
// against the ownership and role policy before reaching the services.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"qna/internal/qna/models"
	dErrors "qna/pkg/domain-errors"
	"qna/pkg/platform/httputil"
	"qna/pkg/platform/middleware/auth"
	request "qna/pkg/platform/middleware/request"
	"qna/pkg/requestcontext"
)

type QuestionService interface {
	List(ctx context.Context) ([]*models.Question, error)
	Get(ctx context.Context, id int64) (*models.Question, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Question, error)
	ListAnswers(ctx context.Context, questionID int64) ([]*models.Answer, error)
	Create(ctx context.Context, cmd models.CreateQuestionCommand) (*models.Question, error)
	Update(ctx context.Context, cmd models.UpdateQuestionCommand) (*models.Question, error)
	Delete(ctx context.Context, id int64) error
}

type AnswerService interface {
	List(ctx context.Context) ([]*models.Answer, error)
	Get(ctx context.Context, id int64) (*models.Answer, error)
	Create(ctx context.Context, cmd models.CreateAnswerCommand) (*models.Answer, error)
	Update(ctx context.Context, cmd models.UpdateAnswerCommand) (*models.Answer, error)
	Delete(ctx context.Context, id int64) error
}

// UserStore mirrors identity provider users into the local users table so
// owner foreign keys resolve.
type UserStore interface {
	Upsert(ctx context.Context, user models.User) error
}

// Handler serves the /api question and answer routes.
type Handler struct {
	questions QuestionService
	answers   AnswerService
	users     UserStore
	validator auth.JWTValidator
	logger    *slog.Logger
}

// New creates a new question/answer Handler.
func New(
	questions QuestionService,
	answers AnswerService,
	users UserStore,
	validator auth.JWTValidator,
	logger *slog.Logger) *Handler {
	return &Handler{
		questions: questions,
		answers:   answers,
		users:     users,
		validator: validator,
		logger:    logger,
	}
}

// Register registers the question and answer routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", h.handleListQuestions)
		r.Get("/questions/{id}", h.handleGetQuestion)
		r.Get("/questions/{id}/answers", h.handleListQuestionAnswers)
		r.Get("/users/{userID}/questions", h.handleListUserQuestions)
		r.Get("/answers", h.handleListAnswers)
		r.Get("/answers/{id}", h.handleGetAnswer)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(h.validator, h.logger))
			r.Post("/questions", h.handleCreateQuestion)
			r.Put("/questions/{id}", h.handleUpdateQuestion)
			r.Delete("/questions/{id}", h.handleDeleteQuestion)
			r.Post("/answers", h.handleCreateAnswer)
			r.Put("/answers/{id}", h.handleUpdateAnswer)
			r.Delete("/answers/{id}", h.handleDeleteAnswer)
		})
	})
}

// writeError logs server-side failures and renders the error envelope.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	requestID := request.GetRequestID(ctx)
	if de, ok := dErrors.As(err); ok && dErrors.ToHTTPStatus(de.Code) < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
	} else {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}

// pathID parses the {id} segment. Only non-integers are rejected here; an
// integer that names no row is left to the service to report as not found.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid id")
	}
	return id, nil
}

// syncCaller upserts the caller into the users table before a mutation.
func (h *Handler) syncCaller(ctx context.Context, identity requestcontext.Identity) error {
	username := identity.Username
	if username == "" {
		username = identity.UserID
	}
	if err := h.users.Upsert(ctx, models.User{ID: identity.UserID, Username: username}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to sync caller")
	}
	return nil
}

// caller returns the identity placed in the context by RequireAuth.
func caller(ctx context.Context) (requestcontext.Identity, error) {
	identity := requestcontext.CurrentIdentity(ctx)
	if !identity.IsAuthenticated() {
		return identity, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return identity, nil
}

var errIDMismatch = errors.New("body id does not match path id")
