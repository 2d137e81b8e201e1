package subtitle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sublingo/sublingo/pkg/models"
)

func fl(v float64) *float64 { return &v }

func TestAssembleTimed(t *testing.T) {
	a := NewAssembler()

	cues := a.Assemble(TimedInput{
		{Text: " Hello there. ", Start: fl(0.0), End: fl(4.2)},
		{Text: "How are you?", Start: fl(4.2), End: fl(9.8)},
	})

	require.Len(t, cues, 2)
	assert.Equal(t, 1, cues[0].Index)
	assert.Equal(t, 2, cues[1].Index)
	assert.Equal(t, "Hello there.", cues[0].Content)
	assert.Equal(t, time.Duration(0), cues[0].Start)
	assert.Equal(t, 4200*time.Millisecond, cues[0].End)
	assert.Equal(t, 4200*time.Millisecond, cues[1].Start)
	assert.Equal(t, 9800*time.Millisecond, cues[1].End)
}

func TestAssembleTimedMissingTimestampsGetIndexSlot(t *testing.T) {
	a := NewAssembler()

	cues := a.Assemble(TimedInput{
		{Text: "Hi", Start: fl(1.5), End: fl(2.0)},
		{Text: "Bye"}, // no timestamps
	})

	require.Len(t, cues, 2)
	assert.Equal(t, 1500*time.Millisecond, cues[0].Start)
	assert.Equal(t, 2000*time.Millisecond, cues[0].End)
	// The fallback slot depends on the item index, not on cue 1's timing.
	assert.Equal(t, 3*time.Second, cues[1].Start)
	assert.Equal(t, 6*time.Second, cues[1].End)
}

func TestAssembleTimedIndicesContiguousAndRangesValid(t *testing.T) {
	a := NewAssembler()

	input := TimedInput{
		{Text: "a", Start: fl(0), End: fl(1)},
		{Text: "b"},
		{Text: "c", Start: fl(7), End: fl(8.5)},
		{Text: "d"},
	}
	cues := a.Assemble(input)

	require.Len(t, cues, len(input))
	for i, cue := range cues {
		assert.Equal(t, i+1, cue.Index)
		assert.Less(t, cue.Start, cue.End)
	}
}

func TestAssembleLegacyText(t *testing.T) {
	a := NewAssembler()

	cues := a.Assemble(LegacyTextInput("Hello world. This is a test. Bye."))

	require.Len(t, cues, 3)
	assert.Equal(t, "Hello world", cues[0].Content)
	assert.Equal(t, "This is a test", cues[1].Content)
	assert.Equal(t, "Bye", cues[2].Content)

	for i, cue := range cues {
		assert.Equal(t, i+1, cue.Index)
		assert.Equal(t, time.Duration(i)*3*time.Second, cue.Start)
		assert.Equal(t, time.Duration(i+1)*3*time.Second, cue.End)
	}
}

func TestAssembleLegacyTextSkipsEmptyFragments(t *testing.T) {
	a := NewAssembler()

	cues := a.Assemble(LegacyTextInput("First. .  . Second. "))

	require.Len(t, cues, 2)
	assert.Equal(t, "First", cues[0].Content)
	assert.Equal(t, "Second", cues[1].Content)
	assert.Equal(t, 2, cues[1].Index)
	// Slots stay contiguous even when fragments are discarded.
	assert.Equal(t, 3*time.Second, cues[1].Start)
}

func TestAssembleEmptyInputs(t *testing.T) {
	a := NewAssembler()

	assert.Empty(t, a.Assemble(TimedInput{}))
	assert.Empty(t, a.Assemble(LegacyTextInput("")))
}

func TestTimedFromSegments(t *testing.T) {
	segments := []models.TranslatedSegment{
		{Start: 1.0, End: 2.5, Text: "bonjour"},
		{Start: 2.5, End: 4.0, Text: "salut"},
	}

	input := Timed(segments)
	require.Len(t, input, 2)
	require.NotNil(t, input[0].Start)
	assert.Equal(t, 1.0, *input[0].Start)
	assert.Equal(t, 2.5, *input[0].End)
	assert.Equal(t, "bonjour", input[0].Text)
	assert.Equal(t, 4.0, *input[1].End)
}
