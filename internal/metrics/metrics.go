package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sublingo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sublingo_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Upload Metrics
	VideoUploadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sublingo_video_uploads_total",
			Help: "Total number of video uploads",
		},
	)

	VideoUploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sublingo_video_upload_size_bytes",
			Help:    "Size of uploaded videos in bytes",
			Buckets: prometheus.ExponentialBuckets(1024*1024, 2, 12), // 1MB to 2GB
		},
	)

	// Job Metrics
	JobsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sublingo_jobs_completed_total",
			Help: "Total number of completed subtitle jobs",
		},
		[]string{"status"},
	)

	JobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sublingo_jobs_in_progress",
			Help: "Number of jobs currently being processed",
		},
	)

	JobsQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sublingo_jobs_queue_depth",
			Help: "Number of jobs waiting in queue",
		},
	)

	// Pipeline Metrics
	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sublingo_pipeline_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~7 minutes
		},
		[]string{"stage"},
	)

	SegmentsTranscribedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sublingo_segments_transcribed_total",
			Help: "Total number of transcript segments produced",
		},
	)

	TranslationsByStatus = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sublingo_translations_total",
			Help: "Pipeline runs by translation status",
		},
		[]string{"status"},
	)

	TranslationSegmentFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sublingo_translation_segment_failures_total",
			Help: "Segments that kept their original text after a translation error",
		},
	)

	SubtitleBurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sublingo_subtitle_burns_total",
			Help: "Subtitle burn attempts by outcome",
		},
		[]string{"outcome"},
	)
)
