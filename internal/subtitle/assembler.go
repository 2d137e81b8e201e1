// Package subtitle assembles timed (or untimed) text into SRT subtitle
// documents with monotonic, non-overlapping cue ranges.
package subtitle

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sublingo/sublingo/pkg/models"
)

// DefaultSlotDuration is the uniform cue length used when an item carries no
// timing of its own.
const DefaultSlotDuration = 3 * time.Second

// TimedItem is one entry of a timed input. Start and End are second offsets;
// either being nil means the item has no usable timing and gets a
// synthesized slot based on its position.
type TimedItem struct {
	Text  string
	Start *float64
	End   *float64
}

// Input is the tagged union of assembler inputs. Callers select the variant
// explicitly; the assembler never guesses from runtime shape.
type Input interface {
	subtitleInput()
}

// TimedInput carries items with (possibly partial) timestamps.
type TimedInput []TimedItem

// LegacyTextInput is a single untimed block of text, split into fragments on
// ". " and given uniform slots. A fallback for callers with no timing
// source; the timing it produces is approximate.
type LegacyTextInput string

func (TimedInput) subtitleInput()      {}
func (LegacyTextInput) subtitleInput() {}

// Timed converts translated segments into a TimedInput.
func Timed(segments []models.TranslatedSegment) TimedInput {
	return lo.Map(segments, func(s models.TranslatedSegment, _ int) TimedItem {
		start, end := s.Start, s.End
		return TimedItem{Text: s.Text, Start: &start, End: &end}
	})
}

// Assembler turns assembler inputs into cue sequences.
type Assembler struct {
	slot time.Duration
}

// NewAssembler creates an assembler with the default slot duration.
func NewAssembler() *Assembler {
	return &Assembler{slot: DefaultSlotDuration}
}

// Assemble converts the input into cues with contiguous 1-based indices.
func (a *Assembler) Assemble(in Input) []models.Cue {
	switch input := in.(type) {
	case TimedInput:
		return a.assembleTimed(input)
	case LegacyTextInput:
		return a.assembleLegacyText(string(input))
	default:
		return nil
	}
}

func (a *Assembler) assembleTimed(items TimedInput) []models.Cue {
	cues := make([]models.Cue, 0, len(items))
	for i, item := range items {
		var start, end time.Duration
		if item.Start != nil && item.End != nil {
			start = secondsToDuration(*item.Start)
			end = secondsToDuration(*item.End)
		} else {
			// Index-based fallback slot, independent of neighbouring cues.
			start = time.Duration(i) * a.slot
			end = start + a.slot
		}

		cues = append(cues, models.Cue{
			Index:   i + 1,
			Start:   start,
			End:     end,
			Content: strings.TrimSpace(item.Text),
		})
	}
	return cues
}

func (a *Assembler) assembleLegacyText(text string) []models.Cue {
	var cues []models.Cue

	index := 0
	for _, fragment := range strings.Split(text, ". ") {
		fragment = strings.TrimSpace(fragment)
		fragment = strings.TrimSuffix(fragment, ".")
		if fragment == "" {
			continue
		}

		start := time.Duration(index) * a.slot
		cues = append(cues, models.Cue{
			Index:   index + 1,
			Start:   start,
			End:     start + a.slot,
			Content: fragment,
		})
		index++
	}

	return cues
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
