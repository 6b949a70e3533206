package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sondea/sondea-backend/internal/config"
	"github.com/sondea/sondea-backend/internal/database"
	"github.com/sondea/sondea-backend/internal/handler"
	"github.com/sondea/sondea-backend/internal/logger"
	"github.com/sondea/sondea-backend/internal/repository"
	"github.com/sondea/sondea-backend/internal/router"
	"github.com/sondea/sondea-backend/internal/service"
	"github.com/sondea/sondea-backend/internal/validator"
	"github.com/sondea/sondea-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Sondea Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	companyRepo := repository.NewCompanyRepository(pool)
	surveyRepo := repository.NewSurveyRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	distributionRepo := repository.NewDistributionRepository(pool)
	responseRepo := repository.NewResponseRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	companyService := service.NewCompanyService(companyRepo, authService, log)
	surveyService := service.NewSurveyService(surveyRepo, questionRepo, companyRepo, rdb, log)
	questionService := service.NewQuestionService(questionRepo, surveyRepo)
	distributionService := service.NewDistributionService(distributionRepo, surveyRepo)
	respondentService := service.NewRespondentService(distributionRepo, surveyRepo, companyRepo, surveyService, rdb, log)
	sessionStore := service.NewSessionStore(respondentService, respondentService, rdb, cfg, log)
	analyticsService := service.NewAnalyticsService(analyticsRepo, responseRepo, questionRepo, companyRepo, surveyService, rdb, log)
	mediaService := service.NewMediaService(cfg)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(companyService),
		Survey:       handler.NewSurveyHandler(surveyService),
		Question:     handler.NewQuestionHandler(questionService, surveyService),
		Distribution: handler.NewDistributionHandler(distributionService),
		Respondent:   handler.NewRespondentHandler(respondentService, sessionStore),
		Analytics:    handler.NewAnalyticsHandler(analyticsService),
		Media:        handler.NewMediaHandler(mediaService),
		Live:         handler.NewLiveHandler(rdb, surveyService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	submissionWorker := worker.NewSubmissionWorker(responseRepo, rdb, log)
	benchmarkWorker := worker.NewBenchmarkWorker(rdb, log)

	go submissionWorker.Start(workerCtx)
	go benchmarkWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load all ACTIVE survey payloads into Redis before accepting traffic.
	if err := surveyService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
