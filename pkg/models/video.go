package models

import "time"

// Video represents an uploaded video file
type Video struct {
	ID          string    `json:"id" db:"id"`
	Filename    string    `json:"filename" db:"filename"`
	OriginalKey string    `json:"original_key" db:"original_key"`
	Size        int64     `json:"size" db:"size"`
	Duration    float64   `json:"duration" db:"duration"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// VideoStatus constants
const (
	VideoStatusPending    = "pending"
	VideoStatusProcessing = "processing"
	VideoStatusReady      = "ready"
	VideoStatusFailed     = "failed"
)
