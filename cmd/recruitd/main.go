package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/recruitd/internal/application"
	"github.com/example/recruitd/internal/config"
	httptransport "github.com/example/recruitd/internal/http"
	"github.com/example/recruitd/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(sqlite.DefaultConfig(cfg.SQLiteDSN))
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	requestRepo := sqlite.NewRequestRepository(pool)
	candidateRepo := sqlite.NewCandidateRepository(pool)
	setupRepo := sqlite.NewSetupRepository(pool)
	slotRepo := sqlite.NewSlotRepository(pool)
	interviewRepo := sqlite.NewInterviewRepository(pool)
	evaluationRepo := sqlite.NewEvaluationRepository(pool)
	activityRepo := sqlite.NewActivityLogRepository(pool)
	documentRepo := sqlite.NewDocumentRepository(pool)
	mailboxRepo := sqlite.NewMailboxRepository(pool)
	passRepo := sqlite.NewPassRepository(pool)

	activityLog := application.NewActivityLog(activityRepo, idGenerator, now, logger)
	passAccess := application.NewPassAccessService(passRepo, cfg.PassTTL, idGenerator, now, logger)
	requestService := application.NewRequestService(requestRepo, activityLog, idGenerator, now, logger)
	pipelineService := application.NewPipelineService(candidateRepo, requestRepo, passAccess, activityLog, idGenerator, now, logger)
	interviewService := application.NewInterviewService(setupRepo, slotRepo, interviewRepo, candidateRepo, requestRepo, activityLog, idGenerator, now, logger)
	evaluationService := application.NewEvaluationService(evaluationRepo, interviewRepo, idGenerator, now, logger)
	passViewService := application.NewPassViewService(candidateRepo, requestRepo, interviewService, pipelineService, mailboxRepo, documentRepo, activityLog, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Requests:    httptransport.NewRequestHandler(requestService, logger),
		Candidates:  httptransport.NewCandidateHandler(pipelineService, logger),
		Interviews:  httptransport.NewInterviewHandler(interviewService, logger),
		Evaluations: httptransport.NewEvaluationHandler(evaluationService, logger),
		Passes:      httptransport.NewPassHandler(passViewService, passAccess, logger),
		PassGuard:   httptransport.RequirePass(passAccess, logger),
		Middleware:  []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go purgeExpiredPasses(ctx, passAccess, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("recruitd API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// purgeExpiredPasses sweeps expired pass credentials once an hour until the
// context is cancelled.
func purgeExpiredPasses(ctx context.Context, passes *application.PassAccessService, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := passes.PurgeExpired(ctx); err != nil {
				logger.Error("failed to purge expired passes", "error", err)
			}
		}
	}
}
