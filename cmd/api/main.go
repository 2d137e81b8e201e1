package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/sublingo/sublingo/internal/auth"
	"github.com/sublingo/sublingo/internal/cache"
	"github.com/sublingo/sublingo/internal/config"
	"github.com/sublingo/sublingo/internal/database"
	"github.com/sublingo/sublingo/internal/logging"
	"github.com/sublingo/sublingo/internal/media"
	"github.com/sublingo/sublingo/internal/metrics"
	"github.com/sublingo/sublingo/internal/middleware"
	"github.com/sublingo/sublingo/internal/pipeline"
	"github.com/sublingo/sublingo/internal/queue"
	"github.com/sublingo/sublingo/internal/storage"
	"github.com/sublingo/sublingo/internal/tracing"
	"github.com/sublingo/sublingo/internal/transcribe"
	"github.com/sublingo/sublingo/internal/translate"
)

// API bundles the dependencies of the HTTP handlers.
type API struct {
	cfg       *config.Config
	logger    *logging.Logger
	repo      *database.Repository
	storage   *storage.Storage
	queue     *queue.Queue
	cache     *cache.Cache
	ffmpeg    *media.FFmpeg
	processor *pipeline.Processor
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewDefaultLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	middleware.SetJWTSecret(cfg.Auth.JWTSecret)

	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer("sublingo-api", cfg.Tracing.JaegerEndpoint)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize tracer, continuing without tracing")
		} else {
			defer closer.Close()
		}
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	repo := database.NewRepository(db)

	stor, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	q, err := queue.New(cfg.Queue)
	if err != nil {
		logger.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()

	jobCache, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer jobCache.Close()

	// Pipeline wiring: whisper over HTTP, translation engine constructed
	// lazily on first use.
	transcriber := transcribe.NewWhisperClient(cfg.Pipeline.WhisperURL, cfg.Pipeline.BeamSize, cfg.Pipeline.RequestTimeout)
	registry := translate.NewRegistry(func() (translate.Engine, error) {
		return translate.NewHTTPEngine(cfg.Pipeline.TranslatorURL, cfg.Pipeline.MaxTextLength, cfg.Pipeline.RequestTimeout)
	})
	stage := translate.NewStage(registry, logger, cfg.Pipeline.AllowUnsupportedTarget)
	pipe := pipeline.New(transcriber, stage, logger, cfg.Pipeline.InferenceConcurrency)

	ffmpeg := media.NewFFmpeg(cfg.Media.FFmpegPath, cfg.Media.FFprobePath)
	processor := pipeline.NewProcessor(pipe, ffmpeg, stor, repo, jobCache, logger, cfg.Media.TempDir)

	api := &API{
		cfg:       cfg,
		logger:    logger,
		repo:      repo,
		storage:   stor,
		queue:     q,
		cache:     jobCache,
		ffmpeg:    ffmpeg,
		processor: processor,
	}

	var mailer auth.Mailer
	if cfg.Mail.Host != "" && cfg.Mail.From != "" {
		mailer = auth.NewSMTPMailer(cfg.Mail)
	} else {
		mailer = &auth.LogMailer{Logger: logger}
	}
	authService := auth.NewService(repo, mailer, logger, cfg.Auth)
	authHandlers := &AuthHandlers{service: authService, logger: logger}

	router := setupRouter(api, authHandlers, logger)

	metricsServer := metrics.NewServer(cfg.Metrics.Port)
	go func() {
		if err := metricsServer.Start(); err != nil {
			logger.WithError(err).Error("Metrics server stopped")
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}
	metricsServer.Shutdown(ctx)

	logger.Info("Server stopped")
}

func setupRouter(api *API, authHandlers *AuthHandlers, logger *logging.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.MaxMultipartMemory = 64 << 20

	limiter := middleware.NewRateLimiter(10, 20)

	router.GET("/health", api.healthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(limiter))
	{
		// Accounts
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandlers.register)
			authGroup.POST("/login", authHandlers.login)
			authGroup.POST("/forgot-password", authHandlers.forgotPassword)
			authGroup.POST("/reset-password", authHandlers.resetPassword)
			authGroup.POST("/change-password", middleware.JWTAuth(), authHandlers.changePassword)
		}

		// Subtitling
		protected := v1.Group("")
		protected.Use(middleware.JWTAuth())
		{
			protected.POST("/videos/upload", api.uploadVideo)
			protected.POST("/videos/:id/process", api.processVideo)
			protected.GET("/videos/:id", api.getVideo)
			protected.GET("/videos", api.listVideos)
			protected.GET("/jobs/:id", api.getJob)
			protected.GET("/videos/:id/jobs", api.getVideoJobs)
			protected.GET("/download/srt/:job_id", api.downloadSRT)
			protected.GET("/download/output/:job_id", api.downloadOutput)
		}
	}

	return router
}
