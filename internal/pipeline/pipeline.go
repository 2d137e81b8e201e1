// Package pipeline sequences transcription, translation and subtitle
// assembly for a single request.
//
// A request moves through a fixed set of states with no branching back:
//
//	Start -> Transcribed -> {Skipped | Translated | Degraded} -> Assembled -> Done
//
// Transcription failure is the only fatal transition; everything after it
// degrades rather than fails.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/sublingo/sublingo/internal/language"
	"github.com/sublingo/sublingo/internal/logging"
	"github.com/sublingo/sublingo/internal/metrics"
	"github.com/sublingo/sublingo/internal/subtitle"
	"github.com/sublingo/sublingo/internal/tracing"
	"github.com/sublingo/sublingo/internal/transcribe"
	"github.com/sublingo/sublingo/internal/translate"
	"github.com/sublingo/sublingo/pkg/models"
)

// Request describes one pipeline run over an already-extracted audio file.
type Request struct {
	AudioPath      string
	TargetLanguage string
	// SourceHint optionally forces the spoken language instead of relying
	// on the engine's detection. Resolved through the language table.
	SourceHint string
}

// Outcome is everything a caller needs from a finished run: the raw
// segments, the assembled cues and their two serializations.
type Outcome struct {
	Result  models.PipelineResult
	Cues    []models.Cue
	Records []models.CueRecord
	SRT     string
}

// Pipeline runs the transcription-translation-assembly sequence. Model
// inference is blocking and CPU-bound on the serving side, so runs are
// gated by a semaphore to keep concurrent requests from piling onto the
// inference servers.
type Pipeline struct {
	transcriber transcribe.Transcriber
	translator  *translate.Stage
	assembler   *subtitle.Assembler
	logger      *logging.Logger
	sem         *semaphore.Weighted
}

// New creates a pipeline. concurrency bounds simultaneous inference runs;
// values below 1 mean a single run at a time.
func New(transcriber transcribe.Transcriber, translator *translate.Stage, logger *logging.Logger, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		transcriber: transcriber,
		translator:  translator,
		assembler:   subtitle.NewAssembler(),
		logger:      logger,
		sem:         semaphore.NewWeighted(int64(concurrency)),
	}
}

// Run executes one full pass. Once transcription starts, the run completes
// or fails hard; there is no mid-pipeline abort path.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Outcome, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to acquire inference slot: %w", err)
	}
	defer p.sem.Release(1)

	targetCode := language.Resolve(req.TargetLanguage)

	// Start -> Transcribed. An explicit source hint overrides detection
	// unconditionally.
	var opts transcribe.Options
	if req.SourceHint != "" {
		opts.Language = language.Resolve(req.SourceHint)
	}

	span, ctx := tracing.StartSpan(ctx, "pipeline.transcribe")
	start := time.Now()
	transcript, err := p.transcriber.Transcribe(ctx, req.AudioPath, opts)
	tracing.FinishSpan(span, err)
	metrics.PipelineStageDuration.WithLabelValues("transcribe").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	metrics.SegmentsTranscribedTotal.Add(float64(len(transcript.Segments)))

	// The engine may report a language name rather than a code; the
	// resolver normalizes both.
	sourceCode := language.Resolve(transcript.Language)

	// Transcribed -> {Skipped | Translated | Degraded}.
	span, ctx = tracing.StartSpan(ctx, "pipeline.translate")
	start = time.Now()
	segments, status := p.translator.TranslateAll(ctx, transcript.Segments, sourceCode, targetCode)
	tracing.FinishSpan(span, nil)
	metrics.PipelineStageDuration.WithLabelValues("translate").Observe(time.Since(start).Seconds())
	metrics.TranslationsByStatus.WithLabelValues(status).Inc()

	p.logger.Debugf("Translation %s (%s -> %s), %d segments", status, sourceCode, targetCode, len(segments))

	// {Skipped | Translated | Degraded} -> Assembled.
	cues := p.assembler.Assemble(subtitle.Timed(segments))

	return &Outcome{
		Result: models.PipelineResult{
			Segments:          segments,
			SourceLanguage:    sourceCode,
			TargetLanguage:    targetCode,
			TranslationStatus: status,
		},
		Cues:    cues,
		Records: subtitle.Records(cues),
		SRT:     subtitle.Compose(cues),
	}, nil
}
