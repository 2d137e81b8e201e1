// Package transcribe converts audio into timed text segments using a
// speech-recognition inference server.
package transcribe

import (
	"context"

	"github.com/sublingo/sublingo/pkg/models"
)

// Options tune a single transcription request.
type Options struct {
	// Language forces the spoken language instead of letting the engine
	// detect it. ISO-639-1 code. Empty means auto-detect.
	Language string
}

// Result is the output of one transcription: the ordered segment sequence
// and the language the engine detected (or was forced to use).
type Result struct {
	Segments []models.Segment
	Language string
	Duration float64
}

// Transcriber converts an audio file into timed text segments. Any error is
// fatal to the request; there is no partial transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (*Result, error)
}
