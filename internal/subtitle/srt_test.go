package subtitle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sublingo/sublingo/pkg/models"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00,000"},
		{1500 * time.Millisecond, "00:00:01,500"},
		{3 * time.Second, "00:00:03,000"},
		{61 * time.Second, "00:01:01,000"},
		{time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond, "01:02:03,045"},
		{-time.Second, "00:00:00,000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTimestamp(tt.d))
	}
}

func TestCompose(t *testing.T) {
	cues := []models.Cue{
		{Index: 1, Start: 0, End: 3 * time.Second, Content: "Hello world"},
		{Index: 2, Start: 3 * time.Second, End: 6 * time.Second, Content: "Bye"},
	}

	want := "1\n00:00:00,000 --> 00:00:03,000\nHello world\n\n" +
		"2\n00:00:03,000 --> 00:00:06,000\nBye\n\n"
	assert.Equal(t, want, Compose(cues))
}

func TestComposeEmpty(t *testing.T) {
	assert.Equal(t, "", Compose(nil))
}

func TestRecords(t *testing.T) {
	cues := []models.Cue{
		{Index: 1, Start: 1500 * time.Millisecond, End: 2 * time.Second, Content: "Hi"},
	}

	records := Records(cues)
	require.Len(t, records, 1)
	assert.Equal(t, "00:00:01,500 --> 00:00:02,000", records[0].Time)
	assert.Equal(t, "Hi", records[0].Text)
	assert.Equal(t, 1.5, records[0].Start)
	assert.Equal(t, 2.0, records[0].End)
}
