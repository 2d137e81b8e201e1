package translate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sublingo/sublingo/internal/logging"
	"github.com/sublingo/sublingo/pkg/models"
)

func testSegments() []models.Segment {
	return []models.Segment{
		{Start: 0.0, End: 4.2, Text: "Hello there."},
		{Start: 4.2, End: 9.8, Text: "How are you?"},
		{Start: 9.8, End: 12.0, Text: "Goodbye."},
	}
}

func staticRegistry(engine Engine) *Registry {
	return NewRegistry(func() (Engine, error) { return engine, nil })
}

func failingRegistry() *Registry {
	return NewRegistry(func() (Engine, error) { return nil, errors.New("model load failed") })
}

func TestTranslateAllIdentityWhenLanguagesMatch(t *testing.T) {
	called := false
	engine := EngineFunc(func(ctx context.Context, text, source, target string) (string, error) {
		called = true
		return "should not happen", nil
	})

	stage := NewStage(staticRegistry(engine), logging.NewNop(), true)
	segments := testSegments()

	out, status := stage.TranslateAll(context.Background(), segments, "en", "en")

	assert.Equal(t, models.TranslationSkipped, status)
	assert.False(t, called, "engine must not be invoked when source == target")
	require.Len(t, out, len(segments))
	for i, seg := range out {
		assert.Equal(t, segments[i].Text, seg.Text)
		assert.Equal(t, segments[i].Start, seg.Start)
		assert.Equal(t, segments[i].End, seg.End)
	}
}

func TestTranslateAllTranslatesEverySegment(t *testing.T) {
	engine := EngineFunc(func(ctx context.Context, text, source, target string) (string, error) {
		return "[fr] " + text, nil
	})

	stage := NewStage(staticRegistry(engine), logging.NewNop(), true)
	segments := testSegments()

	out, status := stage.TranslateAll(context.Background(), segments, "en", "fr")

	assert.Equal(t, models.TranslationApplied, status)
	require.Len(t, out, len(segments))
	for i, seg := range out {
		assert.Equal(t, "[fr] "+segments[i].Text, seg.Text)
		// Timing is copied verbatim from the source segment.
		assert.Equal(t, segments[i].Start, seg.Start)
		assert.Equal(t, segments[i].End, seg.End)
	}
}

func TestTranslateAllIsolatesPerSegmentFailures(t *testing.T) {
	calls := 0
	engine := EngineFunc(func(ctx context.Context, text, source, target string) (string, error) {
		calls++
		if calls == 2 {
			return "", errors.New("generation blew up")
		}
		return "[hi] " + text, nil
	})

	stage := NewStage(staticRegistry(engine), logging.NewNop(), true)
	segments := testSegments()

	out, status := stage.TranslateAll(context.Background(), segments, "en", "hi")

	assert.Equal(t, models.TranslationApplied, status)
	require.Len(t, out, len(segments), "no segment may be dropped or merged")
	assert.Equal(t, "[hi] "+segments[0].Text, out[0].Text)
	assert.Equal(t, segments[1].Text, out[1].Text, "failed segment keeps its original text")
	assert.Equal(t, "[hi] "+segments[2].Text, out[2].Text)
}

func TestTranslateAllDegradesWhenModelUnavailable(t *testing.T) {
	stage := NewStage(failingRegistry(), logging.NewNop(), true)
	segments := testSegments()

	out, status := stage.TranslateAll(context.Background(), segments, "en", "fr")

	assert.Equal(t, models.TranslationDegraded, status)
	require.Len(t, out, len(segments))
	for i, seg := range out {
		assert.Equal(t, segments[i].Text, seg.Text)
	}
}

func TestTranslateAllCountPreservedUnderTotalFailure(t *testing.T) {
	engine := EngineFunc(func(ctx context.Context, text, source, target string) (string, error) {
		return "", errors.New("always fails")
	})

	stage := NewStage(staticRegistry(engine), logging.NewNop(), true)

	for _, n := range []int{0, 1, 5} {
		segments := make([]models.Segment, n)
		for i := range segments {
			segments[i] = models.Segment{Start: float64(i), End: float64(i + 1), Text: fmt.Sprintf("segment %d", i)}
		}

		out, _ := stage.TranslateAll(context.Background(), segments, "en", "de")
		assert.Len(t, out, n)
	}
}

type limitedEngine struct {
	supported  map[string]bool
	lastTarget *string
}

func (e *limitedEngine) Translate(ctx context.Context, text, source, target string) (string, error) {
	*e.lastTarget = target
	return "translated", nil
}

func (e *limitedEngine) Supports(code string) bool { return e.supported[code] }

func TestTranslateOneUnsupportedTargetFallsBackToDefaultDecoding(t *testing.T) {
	var lastTarget string
	engine := &limitedEngine{supported: map[string]bool{"fr": true}, lastTarget: &lastTarget}

	stage := NewStage(staticRegistry(engine), logging.NewNop(), true)
	out, status := stage.TranslateAll(context.Background(), testSegments()[:1], "en", "xx")

	assert.Equal(t, models.TranslationApplied, status)
	assert.Equal(t, "translated", out[0].Text)
	assert.Equal(t, "", lastTarget, "unsupported target must request unconstrained decoding")
}

func TestTranslateOneUnsupportedTargetRejectedByPolicy(t *testing.T) {
	var lastTarget string
	engine := &limitedEngine{supported: map[string]bool{"fr": true}, lastTarget: &lastTarget}

	stage := NewStage(staticRegistry(engine), logging.NewNop(), false)
	segments := testSegments()[:1]
	out, status := stage.TranslateAll(context.Background(), segments, "en", "xx")

	assert.Equal(t, models.TranslationApplied, status)
	assert.Equal(t, segments[0].Text, out[0].Text, "rejected target keeps original text")
}
