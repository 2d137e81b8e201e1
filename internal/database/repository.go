package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sublingo/sublingo/pkg/models"
)

// Repository provides database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Health checks database connectivity
func (r *Repository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

// Videos

// CreateVideo creates a new video record
func (r *Repository) CreateVideo(ctx context.Context, video *models.Video) error {
	if video.ID == "" {
		video.ID = uuid.New().String()
	}

	query := `
		INSERT INTO videos (id, filename, original_key, size, duration, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		video.ID, video.Filename, video.OriginalKey, video.Size, video.Duration, video.Status,
	).Scan(&video.CreatedAt, &video.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetVideo retrieves a video by ID
func (r *Repository) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	var video models.Video

	query := `
		SELECT id, filename, original_key, size, duration, status, created_at, updated_at
		FROM videos
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&video.ID, &video.Filename, &video.OriginalKey, &video.Size, &video.Duration,
		&video.Status, &video.CreatedAt, &video.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("video not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return &video, nil
}

// UpdateVideo updates a video record
func (r *Repository) UpdateVideo(ctx context.Context, video *models.Video) error {
	query := `
		UPDATE videos
		SET filename = $2, original_key = $3, size = $4, duration = $5, status = $6,
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query,
		video.ID, video.Filename, video.OriginalKey, video.Size, video.Duration, video.Status,
	)

	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	return nil
}

// ListVideos retrieves all videos with pagination
func (r *Repository) ListVideos(ctx context.Context, limit, offset int) ([]*models.Video, error) {
	query := `
		SELECT id, filename, original_key, size, duration, status, created_at, updated_at
		FROM videos
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		var video models.Video
		err := rows.Scan(
			&video.ID, &video.Filename, &video.OriginalKey, &video.Size, &video.Duration,
			&video.Status, &video.CreatedAt, &video.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, &video)
	}

	return videos, nil
}

// Subtitle jobs

// CreateJob creates a new subtitle job record
func (r *Repository) CreateJob(ctx context.Context, job *models.SubtitleJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}

	query := `
		INSERT INTO subtitle_jobs (id, video_id, status, target_language, source_hint, burn)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		job.ID, job.VideoID, job.Status, job.TargetLanguage, job.SourceHint, job.Burn,
	).Scan(&job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetJob retrieves a subtitle job by ID
func (r *Repository) GetJob(ctx context.Context, id string) (*models.SubtitleJob, error) {
	var job models.SubtitleJob

	query := `
		SELECT id, video_id, status, target_language, source_hint, burn,
		       translation_status, srt_key, burned_key, burn_error, error_msg,
		       worker_id, started_at, completed_at, created_at, updated_at
		FROM subtitle_jobs
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.VideoID, &job.Status, &job.TargetLanguage, &job.SourceHint,
		&job.Burn, &job.TranslationStatus, &job.SRTKey, &job.BurnedKey, &job.BurnError,
		&job.ErrorMsg, &job.WorkerID, &job.StartedAt, &job.CompletedAt,
		&job.CreatedAt, &job.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("job not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// UpdateJob updates a subtitle job record
func (r *Repository) UpdateJob(ctx context.Context, job *models.SubtitleJob) error {
	query := `
		UPDATE subtitle_jobs
		SET status = $2, translation_status = $3, srt_key = $4, burned_key = $5,
		    burn_error = $6, error_msg = $7, worker_id = $8, started_at = $9,
		    completed_at = $10, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query,
		job.ID, job.Status, job.TranslationStatus, job.SRTKey, job.BurnedKey,
		job.BurnError, job.ErrorMsg, job.WorkerID, job.StartedAt, job.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	return nil
}

// GetJobsByVideoID retrieves all subtitle jobs for a video
func (r *Repository) GetJobsByVideoID(ctx context.Context, videoID string) ([]*models.SubtitleJob, error) {
	query := `
		SELECT id, video_id, status, target_language, source_hint, burn,
		       translation_status, srt_key, burned_key, burn_error, error_msg,
		       worker_id, started_at, completed_at, created_at, updated_at
		FROM subtitle_jobs
		WHERE video_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.SubtitleJob
	for rows.Next() {
		var job models.SubtitleJob
		err := rows.Scan(
			&job.ID, &job.VideoID, &job.Status, &job.TargetLanguage, &job.SourceHint,
			&job.Burn, &job.TranslationStatus, &job.SRTKey, &job.BurnedKey, &job.BurnError,
			&job.ErrorMsg, &job.WorkerID, &job.StartedAt, &job.CompletedAt,
			&job.CreatedAt, &job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, &job)
	}

	return jobs, nil
}
