package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	jwttoken "qna/internal/jwt_token"
	"qna/internal/platform/config"
	"qna/internal/platform/httpserver"
	"qna/internal/platform/logger"
	platformmetrics "qna/internal/platform/metrics"
	platformpostgres "qna/internal/platform/postgres"
	"qna/internal/qna"
	"qna/internal/qna/events"
	qnametrics "qna/internal/qna/metrics"
	"qna/internal/qna/service"
	"qna/internal/qna/store/postgres"
	"qna/pkg/platform/httputil"
	request "qna/pkg/platform/middleware/request"
	"qna/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	stores, db, err := openStores(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	publisher, closePublisher, err := newPublisher(cfg.Events, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	reg := platformmetrics.NewRegistry()
	validator := jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer))
	module := qna.New(stores, validator, log,
		service.WithMetrics(qnametrics.New(reg)),
		service.WithEventPublisher(publisher),
		service.WithPublishTimeout(cfg.Events.PublishTimeout),
	)

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Get("/healthz", healthHandler(db))
	r.Handle("/metrics", platformmetrics.Handler(reg))
	module.Handler.Register(r)

	srv := httpserver.New(cfg.Server.Addr, r)
	return httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout, log)
}

// openStores picks PostgreSQL when a URL is configured and the in-memory
// store otherwise.
func openStores(ctx context.Context, cfg config.Database, log *slog.Logger) (qna.Stores, *sql.DB, error) {
	if cfg.URL == "" {
		log.Warn("DATABASE_URL not set, using in-memory store")
		return qna.MemoryStores(), nil, nil
	}
	db, err := platformpostgres.Open(ctx, cfg)
	if err != nil {
		return qna.Stores{}, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return qna.Stores{}, nil, err
	}
	return qna.PostgresStores(db), db, nil
}

func newPublisher(cfg config.Events, log *slog.Logger) (service.EventPublisher, func(), error) {
	if len(cfg.Brokers) == 0 {
		return events.NewLogPublisher(log), func() {}, nil
	}
	kafka, err := events.NewKafkaPublisher(cfg.Brokers, cfg.Topic, cfg.PublishTimeout)
	if err != nil {
		return nil, nil, err
	}
	log.Info("publishing lifecycle events", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return kafka, kafka.Close, nil
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
