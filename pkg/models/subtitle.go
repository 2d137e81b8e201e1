package models

import "time"

// Cue is a single subtitle display unit. Indices are 1-based and contiguous
// within a document.
type Cue struct {
	Index   int           `json:"index"`
	Start   time.Duration `json:"start"`
	End     time.Duration `json:"end"`
	Content string        `json:"content"`
}

// CueRecord is the API-facing shape of a cue: the SRT time range as a
// preformatted string alongside raw second offsets.
type CueRecord struct {
	Time  string  `json:"time"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SubtitleFormat constants
const (
	SubtitleFormatSRT = "srt"
)
