package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sublingo/sublingo/internal/logging"
	"github.com/sublingo/sublingo/internal/transcribe"
	"github.com/sublingo/sublingo/internal/translate"
	"github.com/sublingo/sublingo/pkg/models"
)

// fakeTranscriber returns a canned result and records the options it saw.
type fakeTranscriber struct {
	result   *transcribe.Result
	err      error
	lastOpts transcribe.Options
	calls    int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string, opts transcribe.Options) (*transcribe.Result, error) {
	f.calls++
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestPipeline(t *fakeTranscriber, engine translate.Engine) *Pipeline {
	registry := translate.NewRegistry(func() (translate.Engine, error) {
		return engine, nil
	})
	stage := translate.NewStage(registry, logging.NewNop(), true)
	return New(t, stage, logging.NewNop(), 2)
}

func TestRunTranslatesAndAssembles(t *testing.T) {
	transcriber := &fakeTranscriber{
		result: &transcribe.Result{
			Segments: []models.Segment{
				{Start: 0.0, End: 4.5, Text: "Hello there"},
				{Start: 4.5, End: 9.8, Text: "Goodbye now"},
			},
			Language: "english",
			Duration: 10.0,
		},
	}
	engine := translate.EngineFunc(func(ctx context.Context, text, source, target string) (string, error) {
		return fmt.Sprintf("%s:%s", target, text), nil
	})

	p := newTestPipeline(transcriber, engine)
	outcome, err := p.Run(context.Background(), Request{
		AudioPath:      "/tmp/audio.wav",
		TargetLanguage: "French",
	})
	require.NoError(t, err)

	assert.Equal(t, "en", outcome.Result.SourceLanguage)
	assert.Equal(t, "fr", outcome.Result.TargetLanguage)
	assert.Equal(t, models.TranslationApplied, outcome.Result.TranslationStatus)

	require.Len(t, outcome.Cues, 2)
	assert.Equal(t, 1, outcome.Cues[0].Index)
	assert.Equal(t, 2, outcome.Cues[1].Index)
	assert.Equal(t, "fr:Hello there", outcome.Cues[0].Content)
	assert.Equal(t, "fr:Goodbye now", outcome.Cues[1].Content)

	// Segment timings survive translation and assembly verbatim.
	assert.Equal(t, 4500*time.Millisecond, outcome.Cues[0].End)
	assert.Equal(t, 4500*time.Millisecond, outcome.Cues[1].Start)
	assert.Equal(t, 9800*time.Millisecond, outcome.Cues[1].End)

	assert.Contains(t, outcome.SRT, "00:00:00,000 --> 00:00:04,500")
	assert.Contains(t, outcome.SRT, "00:00:04,500 --> 00:00:09,800")
	assert.True(t, strings.HasSuffix(outcome.SRT, "\n\n"))

	require.Len(t, outcome.Records, 2)
	assert.Equal(t, 4.5, outcome.Records[0].End)
	assert.Equal(t, "fr:Hello there", outcome.Records[0].Text)
}

func TestRunSkipsTranslationForSameLanguage(t *testing.T) {
	transcriber := &fakeTranscriber{
		result: &transcribe.Result{
			Segments: []models.Segment{{Start: 0, End: 2, Text: "Hello"}},
			Language: "en",
		},
	}
	engine := translate.EngineFunc(func(ctx context.Context, text, source, target string) (string, error) {
		t.Fatal("engine must not be invoked when source equals target")
		return "", nil
	})

	p := newTestPipeline(transcriber, engine)
	outcome, err := p.Run(context.Background(), Request{
		AudioPath:      "/tmp/audio.wav",
		TargetLanguage: "English",
	})
	require.NoError(t, err)

	assert.Equal(t, models.TranslationSkipped, outcome.Result.TranslationStatus)
	require.Len(t, outcome.Cues, 1)
	assert.Equal(t, "Hello", outcome.Cues[0].Content)
}

func TestRunDegradesWhenEngineUnavailable(t *testing.T) {
	transcriber := &fakeTranscriber{
		result: &transcribe.Result{
			Segments: []models.Segment{{Start: 0, End: 2, Text: "Hola"}},
			Language: "spanish",
		},
	}
	registry := translate.NewRegistry(func() (translate.Engine, error) {
		return nil, errors.New("model server unreachable")
	})
	stage := translate.NewStage(registry, logging.NewNop(), true)
	p := New(transcriber, stage, logging.NewNop(), 1)

	outcome, err := p.Run(context.Background(), Request{
		AudioPath:      "/tmp/audio.wav",
		TargetLanguage: "english",
	})
	require.NoError(t, err)

	assert.Equal(t, models.TranslationDegraded, outcome.Result.TranslationStatus)
	require.Len(t, outcome.Cues, 1)
	assert.Equal(t, "Hola", outcome.Cues[0].Content)
}

func TestRunFailsOnTranscriptionError(t *testing.T) {
	transcriber := &fakeTranscriber{err: errors.New("inference server down")}
	engine := translate.EngineFunc(func(ctx context.Context, text, source, target string) (string, error) {
		return text, nil
	})

	p := newTestPipeline(transcriber, engine)
	outcome, err := p.Run(context.Background(), Request{
		AudioPath:      "/tmp/audio.wav",
		TargetLanguage: "french",
	})
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Contains(t, err.Error(), "transcription failed")
}

func TestRunResolvesSourceHint(t *testing.T) {
	transcriber := &fakeTranscriber{
		result: &transcribe.Result{
			Segments: []models.Segment{{Start: 0, End: 1, Text: "text"}},
			Language: "hi",
		},
	}
	engine := translate.EngineFunc(func(ctx context.Context, text, source, target string) (string, error) {
		return text, nil
	})

	p := newTestPipeline(transcriber, engine)
	_, err := p.Run(context.Background(), Request{
		AudioPath:      "/tmp/audio.wav",
		TargetLanguage: "hindi",
		SourceHint:     " Hindi ",
	})
	require.NoError(t, err)
	assert.Equal(t, "hi", transcriber.lastOpts.Language)
}

func TestRunNoHintLeavesDetectionToEngine(t *testing.T) {
	transcriber := &fakeTranscriber{
		result: &transcribe.Result{
			Segments: []models.Segment{{Start: 0, End: 1, Text: "text"}},
			Language: "en",
		},
	}
	engine := translate.EngineFunc(func(ctx context.Context, text, source, target string) (string, error) {
		return text, nil
	})

	p := newTestPipeline(transcriber, engine)
	_, err := p.Run(context.Background(), Request{
		AudioPath:      "/tmp/audio.wav",
		TargetLanguage: "english",
	})
	require.NoError(t, err)
	assert.Empty(t, transcriber.lastOpts.Language)
}
