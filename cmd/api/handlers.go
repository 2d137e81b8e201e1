package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sublingo/sublingo/internal/metrics"
	"github.com/sublingo/sublingo/pkg/models"
)

// healthCheck reports database and cache health.
func (api *API) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := api.repo.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// uploadVideo ingests a video and runs the subtitling pipeline in the
// request. The response carries the structured cues, the SRT object key,
// and burn_error when burning was requested but failed.
func (api *API) uploadVideo(c *gin.Context) {
	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No video file provided"})
		return
	}

	targetLanguage := c.DefaultPostForm("language", "en")
	sourceHint := c.PostForm("source_lang")
	burn, _ := strconv.ParseBool(c.DefaultPostForm("burn", "false"))

	tempPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}
	defer os.Remove(tempPath)

	metrics.VideoUploadsTotal.Inc()
	metrics.VideoUploadSizeBytes.Observe(float64(file.Size))

	video, err := api.ingestVideo(c.Request.Context(), file.Filename, file.Size, tempPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	job := &models.SubtitleJob{
		VideoID:        video.ID,
		Status:         models.JobStatusPending,
		TargetLanguage: targetLanguage,
		SourceHint:     sourceHint,
		Burn:           burn,
	}
	if err := api.repo.CreateJob(c.Request.Context(), job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to create job: %v", err)})
		return
	}

	outcome, err := api.processor.ProcessJob(c.Request.Context(), job)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  err.Error(),
			"job_id": job.ID,
		})
		return
	}

	resp := gin.H{
		"video_id":           video.ID,
		"job_id":             job.ID,
		"source_language":    outcome.Result.SourceLanguage,
		"target_language":    outcome.Result.TargetLanguage,
		"translation_status": outcome.Result.TranslationStatus,
		"subtitles":          outcome.Records,
		"srt_file":           job.SRTKey,
	}
	if job.BurnedKey != "" {
		resp["burned_file"] = job.BurnedKey
	}
	if job.BurnError != "" {
		resp["burn_error"] = job.BurnError
	}

	c.JSON(http.StatusOK, resp)
}

// ingestVideo stores the original file and creates its database record.
func (api *API) ingestVideo(ctx context.Context, filename string, size int64, tempPath string) (*models.Video, error) {
	video := &models.Video{
		ID:       uuid.New().String(),
		Filename: filename,
		Size:     size,
		Status:   models.VideoStatusPending,
	}

	// Duration is informational; a probe failure does not block ingest.
	if duration, err := api.ffmpeg.ProbeDuration(ctx, tempPath); err == nil {
		video.Duration = duration
	}

	storageKey := fmt.Sprintf("videos/%s/original/%s", video.ID, filename)
	if err := api.storage.UploadFile(ctx, storageKey, tempPath); err != nil {
		return nil, fmt.Errorf("failed to upload video: %w", err)
	}
	video.OriginalKey = storageKey

	if err := api.repo.CreateVideo(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to create video record: %w", err)
	}

	return video, nil
}

// processVideo enqueues an asynchronous subtitle job for an already
// uploaded video and returns 202 with the job id.
func (api *API) processVideo(c *gin.Context) {
	videoID := c.Param("id")

	var req struct {
		Language   string `json:"language" binding:"required"`
		SourceLang string `json:"source_lang"`
		Burn       bool   `json:"burn"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := api.repo.GetVideo(c.Request.Context(), videoID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	job := &models.SubtitleJob{
		VideoID:        videoID,
		Status:         models.JobStatusQueued,
		TargetLanguage: req.Language,
		SourceHint:     req.SourceLang,
		Burn:           req.Burn,
	}

	if err := api.repo.CreateJob(c.Request.Context(), job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to create job: %v", err)})
		return
	}

	if err := api.queue.PublishJob(c.Request.Context(), job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to queue job: %v", err)})
		return
	}

	if depth, err := api.queue.GetQueueDepth(); err == nil {
		metrics.JobsQueueDepth.Set(float64(depth))
	}

	c.JSON(http.StatusAccepted, job)
}

// getVideo returns a video record.
func (api *API) getVideo(c *gin.Context) {
	videoID := c.Param("id")

	if video, err := api.cache.GetVideo(c.Request.Context(), videoID); err == nil && video != nil {
		c.JSON(http.StatusOK, video)
		return
	}

	video, err := api.repo.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	api.cache.SetVideo(c.Request.Context(), video)
	c.JSON(http.StatusOK, video)
}

// listVideos returns videos with simple pagination.
func (api *API) listVideos(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	videos, err := api.repo.ListVideos(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"videos": videos,
		"limit":  limit,
		"offset": offset,
	})
}

// getJob returns job state, preferring the cache.
func (api *API) getJob(c *gin.Context) {
	jobID := c.Param("id")

	if job, err := api.cache.GetJob(c.Request.Context(), jobID); err == nil && job != nil {
		c.JSON(http.StatusOK, job)
		return
	}

	job, err := api.repo.GetJob(c.Request.Context(), jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// getVideoJobs returns all subtitle jobs for a video.
func (api *API) getVideoJobs(c *gin.Context) {
	videoID := c.Param("id")

	jobs, err := api.repo.GetJobsByVideoID(c.Request.Context(), videoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// downloadSRT streams a job's subtitle document.
func (api *API) downloadSRT(c *gin.Context) {
	job, ok := api.completedJob(c)
	if !ok {
		return
	}
	if job.SRTKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subtitle file not available"})
		return
	}

	api.streamObject(c, job.SRTKey, job.ID+".srt", "application/x-subrip")
}

// downloadOutput streams a job's burned video, if one was produced.
func (api *API) downloadOutput(c *gin.Context) {
	job, ok := api.completedJob(c)
	if !ok {
		return
	}
	if job.BurnedKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Burned video not available"})
		return
	}

	api.streamObject(c, job.BurnedKey, job.ID+"_subtitled.mp4", "video/mp4")
}

func (api *API) completedJob(c *gin.Context) (*models.SubtitleJob, bool) {
	jobID := c.Param("job_id")

	job, err := api.repo.GetJob(c.Request.Context(), jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return nil, false
	}
	if job.Status != models.JobStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "Job not completed", "status": job.Status})
		return nil, false
	}

	return job, true
}

func (api *API) streamObject(c *gin.Context, key, filename, contentType string) {
	object, err := api.storage.Download(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch object"})
		return
	}
	defer object.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	io.Copy(c.Writer, object)
}
