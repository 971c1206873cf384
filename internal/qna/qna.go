// Package qna assembles the question/answer module: stores, services and the
// HTTP handler.
package qna

import (
	"database/sql"
	"log/slog"

	"qna/internal/qna/handler"
	"qna/internal/qna/service"
	"qna/internal/qna/store/memory"
	"qna/internal/qna/store/postgres"
	"qna/pkg/platform/middleware/auth"
)

// Stores bundles the persistence collaborators of the module.
type Stores struct {
	Questions service.QuestionStore
	Answers   service.AnswerStore
	Users     handler.UserStore
	Tx        service.StoreTx
}

// MemoryStores returns stores backed by one in-process database.
func MemoryStores() Stores {
	db := memory.NewDB()
	return Stores{
		Questions: memory.NewQuestionStore(db),
		Answers:   memory.NewAnswerStore(db),
		Users:     memory.NewUserStore(db),
		Tx:        service.NewLocalTx(),
	}
}

// PostgresStores returns stores backed by db. Run postgres.Migrate first.
func PostgresStores(db *sql.DB) Stores {
	return Stores{
		Questions: postgres.NewQuestionStore(db),
		Answers:   postgres.NewAnswerStore(db),
		Users:     postgres.NewUserStore(db),
		Tx:        postgres.NewTx(db),
	}
}

// Module exposes the wired services and handler.
type Module struct {
	Questions *service.QuestionService
	Answers   *service.AnswerService
	Handler   *handler.Handler
}

// New wires services and handler over stores. opts apply to both services.
func New(stores Stores, validator auth.JWTValidator, logger *slog.Logger, opts ...service.Option) *Module {
	opts = append([]service.Option{service.WithLogger(logger), service.WithTx(stores.Tx)}, opts...)
	answers := service.NewAnswerService(stores.Answers, stores.Questions, opts...)
	questions := service.NewQuestionService(stores.Questions, stores.Answers, answers, opts...)
	return &Module{
		Questions: questions,
		Answers:   answers,
		Handler:   handler.New(questions, answers, stores.Users, validator, logger),
	}
}
