package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sublingo/sublingo/internal/cache"
	"github.com/sublingo/sublingo/internal/config"
	"github.com/sublingo/sublingo/internal/database"
	"github.com/sublingo/sublingo/internal/logging"
	"github.com/sublingo/sublingo/internal/media"
	"github.com/sublingo/sublingo/internal/metrics"
	"github.com/sublingo/sublingo/internal/pipeline"
	"github.com/sublingo/sublingo/internal/queue"
	"github.com/sublingo/sublingo/internal/storage"
	"github.com/sublingo/sublingo/internal/tracing"
	"github.com/sublingo/sublingo/internal/transcribe"
	"github.com/sublingo/sublingo/internal/translate"
	"github.com/sublingo/sublingo/pkg/models"
)

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

	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer("sublingo-worker", cfg.Tracing.JaegerEndpoint)
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

	transcriber := transcribe.NewWhisperClient(cfg.Pipeline.WhisperURL, cfg.Pipeline.BeamSize, cfg.Pipeline.RequestTimeout)
	registry := translate.NewRegistry(func() (translate.Engine, error) {
		return translate.NewHTTPEngine(cfg.Pipeline.TranslatorURL, cfg.Pipeline.MaxTextLength, cfg.Pipeline.RequestTimeout)
	})
	stage := translate.NewStage(registry, logger, cfg.Pipeline.AllowUnsupportedTarget)
	pipe := pipeline.New(transcriber, stage, logger, cfg.Pipeline.InferenceConcurrency)

	ffmpeg := media.NewFFmpeg(cfg.Media.FFmpegPath, cfg.Media.FFprobePath)
	processor := pipeline.NewProcessor(pipe, ffmpeg, stor, repo, jobCache, logger, cfg.Media.TempDir)

	workerLogger := logger.WithWorkerID(processor.WorkerID())

	metricsServer := metrics.NewServer(cfg.Metrics.Port)
	go func() {
		if err := metricsServer.Start(); err != nil {
			workerLogger.WithError(err).Error("Metrics server stopped")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		workerLogger.Info("Shutting down worker gracefully...")
		cancel()
	}()

	jobHandler := func(job *models.SubtitleJob) error {
		jobLogger := workerLogger.WithJobID(job.ID).WithVideoID(job.VideoID)
		jobLogger.Info("Processing subtitle job")

		if _, err := processor.ProcessJob(ctx, job); err != nil {
			jobLogger.WithError(err).Error("Failed to process job")
			return err
		}

		jobLogger.Info("Job completed")
		return nil
	}

	workerLogger.Info("Worker started, waiting for jobs...")
	if err := q.ConsumeJobs(ctx, jobHandler); err != nil {
		workerLogger.Fatalf("Failed to consume jobs: %v", err)
	}

	<-ctx.Done()
	workerLogger.Info("Worker stopped")
}
