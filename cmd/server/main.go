package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/config"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/feedback"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/handlers"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/jobs"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/llm"
	_ "github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/llm/anthropic"
	_ "github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/llm/gemini"
	_ "github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/llm/openai"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/metrics"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/poll"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/prompts"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/questions"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/routers"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/scoring"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/services"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/store"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/tts"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/utils"
)

func registerRoutes(router *chi.Mux, cfg *config.Config, interviewHandler *handlers.InterviewHandler, ttsHandler *handlers.TTSHandler, healthHandler *handlers.HealthHandler) {
	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, interviewHandler, cfg.JWTSecret)
	routers.TTSRoutes(router, ttsHandler, cfg.JWTSecret)
}

// initDatabase opens the PostgreSQL connection and migrates the interview tables
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// initProvider returns nil when no oracle is configured; scoring then runs on the heuristic alone
func initProvider(cfg *config.Config, logger *zap.Logger) llm.Provider {
	if cfg.Provider == "none" {
		logger.Info("No AI provider configured, using heuristic scoring")
		return nil
	}
	provider, err := llm.NewProvider(cfg.Provider, cfg)
	if err != nil {
		logger.Warn("Failed to initialize AI provider, using heuristic scoring",
			zap.String("provider", cfg.Provider), zap.Error(err))
		return nil
	}
	return provider
}

func buildScorer(cfg *config.Config, provider llm.Provider, promptManager prompts.PromptProvider, logger *zap.Logger) *scoring.Engine {
	seed := cfg.HeuristicSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	heuristic := scoring.NewHeuristic(rand.NewSource(seed), cfg.HeuristicJitter)

	if provider == nil {
		return scoring.NewEngine(nil, "none", heuristic, logger)
	}
	oracle := scoring.NewOracle(provider, promptManager, logger)
	return scoring.NewEngine(oracle, provider.GetProviderName(), heuristic, logger).WithOracleTimeout(cfg.OracleTimeout)
}

// initLocker prefers a Redis lease so several replicas serialize turns; a single replica can use the in-process lock
func initLocker(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Locker, *redis.Client) {
	opts := poll.Options{Interval: cfg.LeasePollInterval, MaxAttempts: cfg.LeaseMaxAttempts}
	if cfg.Redis.Addr == "" {
		logger.Info("REDIS_ADDR not set, using in-process session lock")
		return store.NewLocalLocker(opts), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
	locker := store.NewRedisLocker(client, cfg.LeaseTTL, opts)
	if err := locker.Ping(ctx); err != nil {
		logger.Warn("Redis unreachable, using in-process session lock", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = client.Close()
		return store.NewLocalLocker(opts), nil
	}
	logger.Info("Using Redis session lease", zap.String("addr", cfg.Redis.Addr))
	return locker, client
}

func newRouter(cfg *config.Config) *chi.Mux {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// must outlast the turn timeout so a slow oracle call still returns its fallback score
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(cfg.TurnTimeout+15*time.Second))
	router.Use(metrics.Middleware("interview"))
	return router
}

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	logger := utils.GetLogger()
	defer logger.Sync()

	logger.Info("Configuration loaded", zap.String("provider", cfg.Provider))

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	bank, err := questions.NewBank()
	if err != nil {
		logger.Fatal("Failed to load question bank", zap.Error(err))
	}

	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	provider := initProvider(cfg, logger)
	scorer := buildScorer(cfg, provider, promptManager, logger)
	summarizer := scoring.NewSummarizer(provider, promptManager, logger)

	locker, redisClient := initLocker(rootCtx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	interviewService := services.NewInterviewService(
		store.New(db),
		locker,
		scorer,
		bank,
		feedback.NewScoreCache(rootCtx, cfg.ScoreCacheTTL),
		summarizer,
		cfg.TurnTimeout,
		logger,
	)

	ttsClient := tts.NewClient(cfg.ElevenLabs, nil, logger)
	if !ttsClient.Configured() {
		logger.Info("ELEVENLABS_API_KEY not set, speech falls back to browser synthesis")
	}

	backfillJob := jobs.NewSummaryBackfillJob(interviewService, jobs.BackfillConfig{
		Schedule: cfg.BackfillSchedule,
		Enabled:  cfg.BackfillEnabled,
	}, logger)
	if err := backfillJob.Start(); err != nil {
		logger.Error("Failed to start summary backfill job", zap.Error(err))
	}

	router := newRouter(cfg)
	registerRoutes(router, cfg,
		handlers.NewInterviewHandler(interviewService, logger),
		handlers.NewTTSHandler(ttsClient, logger),
		handlers.NewHealthHandler(interviewService, cfg),
	)

	serverAddr := ":" + cfg.Port

	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.TurnTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	backfillJob.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
