package translate

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/sublingo/sublingo/internal/logging"
	"github.com/sublingo/sublingo/internal/metrics"
	"github.com/sublingo/sublingo/pkg/models"
)

// Stage runs segment-level translation with the degradation policy the
// pipeline requires: source==target short-circuits, an unavailable model
// degrades the whole batch, and a failing segment keeps its original text
// without aborting the rest.
type Stage struct {
	registry *Registry
	logger   *logging.Logger

	// allowUnsupportedTarget lets the model decode unconstrained when it
	// does not know the target language. The output language is then not
	// guaranteed. When false, segments keep their original text instead.
	allowUnsupportedTarget bool
}

// NewStage creates a translation stage backed by the given registry.
func NewStage(registry *Registry, logger *logging.Logger, allowUnsupportedTarget bool) *Stage {
	return &Stage{
		registry:               registry,
		logger:                 logger,
		allowUnsupportedTarget: allowUnsupportedTarget,
	}
}

// passthrough wraps segments unchanged.
func passthrough(segments []models.Segment) []models.TranslatedSegment {
	return lo.Map(segments, func(s models.Segment, _ int) models.TranslatedSegment {
		return models.TranslatedSegment{Start: s.Start, End: s.End, Text: s.Text}
	})
}

// TranslateAll maps every segment from source to target. The output always
// has the same length and order as the input; it never returns an error.
// The returned status is one of the models.Translation* constants.
func (s *Stage) TranslateAll(ctx context.Context, segments []models.Segment, source, target string) ([]models.TranslatedSegment, string) {
	if source == target {
		return passthrough(segments), models.TranslationSkipped
	}

	engine, err := s.registry.GetOrInit()
	if err != nil {
		s.logger.WithError(err).Warn("Translation model unavailable, returning original transcript")
		return passthrough(segments), models.TranslationDegraded
	}

	out := make([]models.TranslatedSegment, 0, len(segments))
	for _, segment := range segments {
		text, err := s.translateOne(ctx, engine, segment.Text, source, target)
		if err != nil {
			// One bad segment never aborts the batch; keep the original text.
			s.logger.WithError(err).Warnf("Translation error (%s->%s), keeping original text", source, target)
			metrics.TranslationSegmentFailures.Inc()
			text = segment.Text
		}
		out = append(out, models.TranslatedSegment{
			Start: segment.Start,
			End:   segment.End,
			Text:  text,
		})
	}

	return out, models.TranslationApplied
}

// translateOne translates a single segment's text. When the model does not
// support the target language, the configured policy decides between
// unconstrained decoding and keeping the original text.
func (s *Stage) translateOne(ctx context.Context, engine Engine, text, source, target string) (string, error) {
	if !engine.Supports(target) {
		if !s.allowUnsupportedTarget {
			return "", fmt.Errorf("target language %q not supported by translation model", target)
		}
		s.logger.Warnf("Target language %q not supported by translation model, using default decoding", target)
		target = ""
	}

	return engine.Translate(ctx, text, source, target)
}
