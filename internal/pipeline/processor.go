package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sublingo/sublingo/internal/logging"
	"github.com/sublingo/sublingo/internal/media"
	"github.com/sublingo/sublingo/internal/metrics"
	"github.com/sublingo/sublingo/pkg/models"
)

// MediaProcessor is the subset of ffmpeg operations the processor needs.
type MediaProcessor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
	BurnSubtitles(ctx context.Context, videoPath, subtitlePath, outputPath string) error
}

// ObjectStore moves files between local disk and object storage.
type ObjectStore interface {
	UploadFile(ctx context.Context, key, filePath string) error
	DownloadFile(ctx context.Context, key, filePath string) error
}

// Repository persists job and video state.
type Repository interface {
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	UpdateJob(ctx context.Context, job *models.SubtitleJob) error
}

// JobCache mirrors job state into a fast lookup store. A nil cache is
// allowed; updates are then skipped.
type JobCache interface {
	SetJob(ctx context.Context, job *models.SubtitleJob) error
}

// Processor runs subtitle jobs end to end: download, extract audio, run the
// pipeline, upload the SRT document and optionally burn it into the video.
// It is shared by the synchronous upload handler and the queue worker.
type Processor struct {
	pipeline *Pipeline
	media    MediaProcessor
	storage  ObjectStore
	repo     Repository
	cache    JobCache
	logger   *logging.Logger
	tempDir  string
	workerID string

	// verifyAudio checks the extracted file before it is sent to the
	// transcription engine. Overridable in tests.
	verifyAudio func(path string) error
}

// NewProcessor creates a processor. repo and cache may be nil when only
// ProcessFile is used.
func NewProcessor(p *Pipeline, mp MediaProcessor, store ObjectStore, repo Repository, cache JobCache, logger *logging.Logger, tempDir string) *Processor {
	return &Processor{
		pipeline:    p,
		media:       mp,
		storage:     store,
		repo:        repo,
		cache:       cache,
		logger:      logger,
		tempDir:     tempDir,
		workerID:    uuid.New().String(),
		verifyAudio: media.VerifyTranscriptionWAV,
	}
}

// WorkerID returns the identity this processor stamps onto jobs it runs.
func (p *Processor) WorkerID() string {
	return p.workerID
}

// ProcessFile runs the pipeline over a local video file. The extracted
// audio lives in a scratch directory that is removed before returning.
func (p *Processor) ProcessFile(ctx context.Context, videoPath, targetLanguage, sourceHint string) (*Outcome, error) {
	scratch, err := os.MkdirTemp(p.tempDir, "sublingo-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	audioPath := filepath.Join(scratch, "audio.wav")

	start := time.Now()
	if err := p.media.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		return nil, fmt.Errorf("failed to extract audio: %w", err)
	}
	metrics.PipelineStageDuration.WithLabelValues("extract_audio").Observe(time.Since(start).Seconds())

	if err := p.verifyAudio(audioPath); err != nil {
		return nil, fmt.Errorf("extracted audio unusable: %w", err)
	}

	return p.pipeline.Run(ctx, Request{
		AudioPath:      audioPath,
		TargetLanguage: targetLanguage,
		SourceHint:     sourceHint,
	})
}

// ProcessJob runs a queued subtitle job and returns the pipeline outcome.
// Pipeline and upload errors fail the job; a burn failure does not, the job
// completes with the SRT output and the burn error recorded on it.
func (p *Processor) ProcessJob(ctx context.Context, job *models.SubtitleJob) (*Outcome, error) {
	job.Status = models.JobStatusProcessing
	job.WorkerID = p.workerID
	now := time.Now()
	job.StartedAt = &now

	if err := p.updateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	metrics.JobsInProgress.Inc()
	defer metrics.JobsInProgress.Dec()

	video, err := p.repo.GetVideo(ctx, job.VideoID)
	if err != nil {
		return nil, p.failJob(ctx, job, fmt.Errorf("failed to get video: %w", err))
	}

	scratch := filepath.Join(p.tempDir, job.ID)
	if err := os.MkdirAll(scratch, 0755); err != nil {
		return nil, p.failJob(ctx, job, fmt.Errorf("failed to create temp directory: %w", err))
	}
	defer os.RemoveAll(scratch)

	inputPath := filepath.Join(scratch, "input"+filepath.Ext(video.Filename))
	if err := p.storage.DownloadFile(ctx, video.OriginalKey, inputPath); err != nil {
		return nil, p.failJob(ctx, job, fmt.Errorf("failed to download video: %w", err))
	}

	outcome, err := p.ProcessFile(ctx, inputPath, job.TargetLanguage, job.SourceHint)
	if err != nil {
		return nil, p.failJob(ctx, job, err)
	}
	job.TranslationStatus = outcome.Result.TranslationStatus

	srtPath := filepath.Join(scratch, "subtitles.srt")
	if err := os.WriteFile(srtPath, []byte(outcome.SRT), 0644); err != nil {
		return nil, p.failJob(ctx, job, fmt.Errorf("failed to write subtitle file: %w", err))
	}

	srtKey := fmt.Sprintf("videos/%s/subtitles/%s.srt", video.ID, job.ID)
	if err := p.storage.UploadFile(ctx, srtKey, srtPath); err != nil {
		return nil, p.failJob(ctx, job, fmt.Errorf("failed to upload subtitles: %w", err))
	}
	job.SRTKey = srtKey

	if job.Burn {
		if key, err := p.burn(ctx, video, job, inputPath, srtPath, scratch); err != nil {
			// Best effort: the subtitled video is a bonus artifact, the
			// SRT document already exists.
			p.logger.WithError(err).WithJobID(job.ID).Warn("Subtitle burn failed, completing job without burned video")
			metrics.SubtitleBurnsTotal.WithLabelValues("failed").Inc()
			job.BurnError = err.Error()
		} else {
			metrics.SubtitleBurnsTotal.WithLabelValues("ok").Inc()
			job.BurnedKey = key
		}
	}

	job.Status = models.JobStatusCompleted
	completed := time.Now()
	job.CompletedAt = &completed

	if err := p.updateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	metrics.JobsCompletedTotal.WithLabelValues(models.JobStatusCompleted).Inc()
	p.logger.LogPipelineStage(job.ID, "job", time.Since(now), nil)

	return outcome, nil
}

// burn renders the subtitles into the video and uploads the result.
func (p *Processor) burn(ctx context.Context, video *models.Video, job *models.SubtitleJob, inputPath, srtPath, scratch string) (string, error) {
	outputPath := filepath.Join(scratch, "subtitled.mp4")

	start := time.Now()
	if err := p.media.BurnSubtitles(ctx, inputPath, srtPath, outputPath); err != nil {
		return "", err
	}
	metrics.PipelineStageDuration.WithLabelValues("burn").Observe(time.Since(start).Seconds())

	key := fmt.Sprintf("videos/%s/outputs/%s_subtitled.mp4", video.ID, job.ID)
	if err := p.storage.UploadFile(ctx, key, outputPath); err != nil {
		return "", fmt.Errorf("failed to upload burned video: %w", err)
	}

	return key, nil
}

// failJob marks a job as failed and persists it.
func (p *Processor) failJob(ctx context.Context, job *models.SubtitleJob, err error) error {
	job.Status = models.JobStatusFailed
	job.ErrorMsg = err.Error()
	completed := time.Now()
	job.CompletedAt = &completed

	metrics.JobsCompletedTotal.WithLabelValues(models.JobStatusFailed).Inc()

	if updateErr := p.updateJob(ctx, job); updateErr != nil {
		return fmt.Errorf("failed to update job: %w (original error: %v)", updateErr, err)
	}

	return err
}

// updateJob persists the job and mirrors it into the cache.
func (p *Processor) updateJob(ctx context.Context, job *models.SubtitleJob) error {
	job.UpdatedAt = time.Now()

	if err := p.repo.UpdateJob(ctx, job); err != nil {
		return err
	}

	if p.cache != nil {
		if err := p.cache.SetJob(ctx, job); err != nil {
			p.logger.WithError(err).WithJobID(job.ID).Warn("Failed to update job cache")
		}
	}

	return nil
}
