package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"fieldaudit/internal/checklist/answer"
	"fieldaudit/internal/checklist/cache"
	"fieldaudit/internal/checklist/handler"
	"fieldaudit/internal/checklist/lifecycle"
	"fieldaudit/internal/checklist/metrics"
	"fieldaudit/internal/checklist/ports"
	"fieldaudit/internal/checklist/scoring"
	checkliststore "fieldaudit/internal/checklist/store/checklist"
	reportstore "fieldaudit/internal/checklist/store/report"
	responsestore "fieldaudit/internal/checklist/store/response"
	templatestore "fieldaudit/internal/checklist/store/template"
	"fieldaudit/internal/jwtauth"
	"fieldaudit/internal/platform/config"
	"fieldaudit/internal/platform/httpserver"
	"fieldaudit/internal/platform/logger"
	platformredis "fieldaudit/internal/platform/redis"
	httptransport "fieldaudit/internal/transport/http"
	"fieldaudit/pkg/platform/audit"
	auditpublisher "fieldaudit/pkg/platform/audit/publisher"
	auditmemory "fieldaudit/pkg/platform/audit/store/memory"
	auditpostgres "fieldaudit/pkg/platform/audit/store/postgres"
)

func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		templates  ports.TemplateStore
		checklists ports.ChecklistStore
		responses  ports.ResponseStore
		reports    ports.ReportStore
		auditStore audit.Store
		health     = map[string]httptransport.HealthChecker{}
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}

		templates = templatestore.NewPostgres(db)
		checklists = checkliststore.NewPostgres(db)
		responses = responsestore.NewPostgres(db)
		reports = reportstore.NewPostgres(db)
		auditStore = auditpostgres.New(db)
		health["database"] = dbHealth{db}
		log.Info("using postgres stores")
	} else {
		templates = templatestore.New()
		checklists = checkliststore.New()
		responses = responsestore.New()
		reports = reportstore.New()
		auditStore = auditmemory.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	var evaluationCache ports.EvaluationCache = cache.NewNoop()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		evaluationCache = cache.NewRedis(redisClient.Client)
		health["redis"] = redisClient
		log.Info("evaluation cache enabled", "ttl", cfg.Redis.EvaluationTTL)
	}

	publisher := auditpublisher.NewPublisher(auditStore,
		auditpublisher.WithAsyncBuffer(cfg.AuditBufferSize),
		auditpublisher.WithLogger(log),
	)
	defer publisher.Close()

	m := metrics.New()

	scoringSvc, err := scoring.New(templates, checklists, responses,
		scoring.WithLogger(log),
		scoring.WithCache(evaluationCache, cfg.Redis.EvaluationTTL),
		scoring.WithMetrics(m),
	)
	if err != nil {
		return fmt.Errorf("build scoring service: %w", err)
	}

	answerSvc, err := answer.New(checklists, responses,
		answer.WithLogger(log),
		answer.WithAuditPublisher(publisher),
		answer.WithCache(evaluationCache),
		answer.WithMetrics(m),
	)
	if err != nil {
		return fmt.Errorf("build answer service: %w", err)
	}

	lifecycleSvc, err := lifecycle.New(templates, checklists, responses, reports,
		lifecycle.WithLogger(log),
		lifecycle.WithAuditPublisher(publisher),
		lifecycle.WithCache(evaluationCache),
		lifecycle.WithMetrics(m),
	)
	if err != nil {
		return fmt.Errorf("build lifecycle service: %w", err)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Checklist: handler.New(scoringSvc, answerSvc, lifecycleSvc, log),
		Auth:      jwtauth.NewValidator(cfg.JWTSigningKey),
		Logger:    log,
		Health:    health,
	})

	server := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
