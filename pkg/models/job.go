package models

import "time"

// SubtitleJob represents one subtitling request: extract audio, transcribe,
// translate if needed, assemble an SRT document and optionally burn it into
// the video.
type SubtitleJob struct {
	ID                string     `json:"id" db:"id"`
	VideoID           string     `json:"video_id" db:"video_id"`
	Status            string     `json:"status" db:"status"`
	TargetLanguage    string     `json:"target_language" db:"target_language"`
	SourceHint        string     `json:"source_hint,omitempty" db:"source_hint"`
	Burn              bool       `json:"burn" db:"burn"`
	TranslationStatus string     `json:"translation_status,omitempty" db:"translation_status"`
	SRTKey            string     `json:"srt_key,omitempty" db:"srt_key"`
	BurnedKey         string     `json:"burned_key,omitempty" db:"burned_key"`
	BurnError         string     `json:"burn_error,omitempty" db:"burn_error"`
	ErrorMsg          string     `json:"error_msg,omitempty" db:"error_msg"`
	WorkerID          string     `json:"worker_id,omitempty" db:"worker_id"`
	StartedAt         *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// JobStatus constants
const (
	JobStatusPending    = "pending"
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)
