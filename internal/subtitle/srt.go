package subtitle

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sublingo/sublingo/pkg/models"
)

// FormatTimestamp renders a duration in the SRT timestamp form
// HH:MM:SS,mmm.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := d / time.Hour
	minutes := (d % time.Hour) / time.Minute
	seconds := (d % time.Minute) / time.Second
	millis := (d % time.Second) / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// TimeRange renders an SRT time range line for a cue.
func TimeRange(start, end time.Duration) string {
	return FormatTimestamp(start) + " --> " + FormatTimestamp(end)
}

// Compose serializes cues into a complete SRT document.
func Compose(cues []models.Cue) string {
	var sb strings.Builder
	for _, cue := range cues {
		fmt.Fprintf(&sb, "%d\n%s\n%s\n\n", cue.Index, TimeRange(cue.Start, cue.End), cue.Content)
	}
	return sb.String()
}

// Records converts cues into the structured API response shape.
func Records(cues []models.Cue) []models.CueRecord {
	return lo.Map(cues, func(cue models.Cue, _ int) models.CueRecord {
		return models.CueRecord{
			Time:  TimeRange(cue.Start, cue.End),
			Text:  cue.Content,
			Start: cue.Start.Seconds(),
			End:   cue.End.Seconds(),
		}
	})
}
